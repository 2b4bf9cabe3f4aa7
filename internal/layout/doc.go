// Package layout reads the array payloads of Signal, SignalGroup, TimeBase
// and AreaBase objects, and the ID payloads of List objects.
//
// # Array shapes
//
// Arrays are stored in column-major order. [ArrayShape] derives the shape
// from the object header:
//
//   - Signal, SignalGroup: index4..index1, truncated to num_dims
//   - TimeBase: [n_steps]
//   - AreaBase: the non-zero sizes of x, y, z followed by n_steps
//
// # Payload sources
//
// Two [Layout] implementations exist:
//
//   - [Contiguous]: the payload is a single block in the file. A [Window]
//     selects a range along the last axis, so only the requested bytes
//     are read.
//   - [Generated]: the payload is computed rather than stored. This is
//     used for TimeBase objects whose length is zero; the time axis is
//     rebuilt from the sampling rate or from the programmed pulse
//     generator (PPG) configuration of a related Device.
package layout
