// Package grid implements the grid finder (C5): it recovers the row/column
// structure of a planar circle grid from an unordered set of 2-D points,
// using a k-means basis search over nearest-neighbor vectors adapted from
// OpenCV's CirclesGridFinder.
package grid
