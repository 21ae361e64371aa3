// Package cube is the job-configuration layer: it describes the data cube
// a batch fills, writes the dataset schema into the array store, and
// derives the per-tile jobs the dispatcher executes. The numeric content of
// tile processing is consumed opaquely through the Processor callable.
package cube
