// Package batch runs one action over a selected set of items, strictly in
// order, with observable progress.
//
// A run is best effort: a failing item is reported through the notifier and
// the loop moves on to the next one. When the loop ends the runner emits the
// optional completion message, returns to idle and calls the reload
// callback exactly once, also for an empty selection.
//
// Progress is -1 while idle and the index of the item in flight while
// running, so a UI can render i/len(items) and disable its triggers.
package batch
