// Package signal holds uniformly sampled detector signals, the channel
// definitions of a multi-wavelength setup and their CSV form.
package signal
