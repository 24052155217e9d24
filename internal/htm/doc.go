// Package htm implements heat transfer models for laser-heated
// nanoparticles.
//
// A Variant supplies the heat and mass flux terms; a Model wraps a variant,
// gates each term by its enable flag and exposes the particle energy and
// mass balance as an ode.System over {T, d} or {T, m}.
//
// Variants are bound to substance records they do not own. Records are read
// only during integration, so concurrent runs share them and clone only the
// model.
package htm
