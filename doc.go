// Package calc implements a calculator for arithmetic on float64 values with
// single-letter variables.
//
// The syntax is intended to be similar to math you'd write in your notes.
// Variables are single letters, so "2xy" is a multiplication of three terms,
// as is "2(x)(y)". "2 ^ 3 ^ 2" is "2 ^ (3 ^ 2)", and "3 √ 8" is the cube root
// of 8. Prefix signs bind tighter than any other operator, so "-2^2" is 4.
//
// An input of the form "x = expr" is an assignment statement. Context.Exec
// evaluates the right side and stores it, and later expressions evaluated in
// the same Context can refer to it.
//
package calc
