// Package cuegen renders a shape catalog as CUE definitions.
//
// Every catalog entry N becomes a definition #TN. Reference markers inside
// entries become references to the matching definition, so the generated
// file can be used directly to validate documents with the same shape:
//
//	#T1: number
//	#T2: {x: number}
//	#T3: {a: #T2, b: [...#T2]}
package cuegen
