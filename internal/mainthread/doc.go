// Package mainthread abstracts the host application's run-on-UI-thread
// primitive so job workers can marshal completion effects back to the
// single-threaded host without knowing which GUI toolkit is embedding the
// panel.
package mainthread
