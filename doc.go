// Package abeles computes the spectral optical response of a planar
// multilayer thin-film stack using the transfer-matrix (Abelès)
// formulation: amplitude reflection and transmission, reflectance,
// transmittance, absorptance, phase, group delay and group delay
// dispersion, ellipsometric Psi/Delta, admittance, reflection-circle
// diagrams, electric-field amplitude, and their first-order derivatives
// with respect to layer thickness or index of refraction.
package abeles
