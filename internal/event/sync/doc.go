// Package sync listens on a serial hardware-trigger line and fans out the
// pulses it reports as synchronization points between the event camera's
// own clock and an external frame camera. Adapted from the teacher's
// internal/serialmux package: the same generic port-abstraction and
// subscriber-fanout shape, reframed from radar command/response lines to
// trigger-pulse lines.
package sync
