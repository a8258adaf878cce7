// Package reachability decides whether original photo files are worth
// touching at all. Catalogs routinely reference files on external drives
// that are not mounted, and probing tens of thousands of such paths stalls a
// batch on filesystem timeouts. The cache derives each path's mount point,
// checks it once, and answers every later path under the same mount from
// memory.
package reachability
