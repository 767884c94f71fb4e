// Package data carries seed files shipped with the service binary.
package data

import (
	_ "embed"
)

// IngredientsCSV is the bundled ingredient reference catalog,
// two columns per row: name, measurement unit.
//
//go:embed ingredients.csv
var IngredientsCSV string
