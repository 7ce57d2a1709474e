// Package sinton imports, corrects and resamples raw Sinton FMT
// current-voltage measurements.
//
// A measurement run produces a .mfr text file holding key="value"
// header lines and a whitespace-delimited data block of four columns:
// raw short-circuit current, raw open-circuit voltage, irradiance in
// mW/cm2, and the load-voltage ramp. The pipeline is
// ImportRawData -> CorrectRawData -> InterpolateLoadData, ending in
// fixed-size packed buffers comparable across files measured with
// different ramp lengths.
package sinton
