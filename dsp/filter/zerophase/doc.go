// Package zerophase implements forward-backward (zero-phase) IIR filtering
// of complete, finite buffers.
//
// The filter runs once over the buffer and once over its time reversal, so
// phase shifts cancel and the magnitude response is squared. Filtering is
// always performed on second-order sections from dsp/filter/design.
package zerophase
