// Package channel layers named message channels over one raw event
// transport. The registry guarantees fan-out in registration order and FIFO
// per channel only; nothing is guaranteed across channels.
package channel
