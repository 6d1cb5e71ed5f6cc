// Package page holds the upload form served on GET /.
package page

import _ "embed"

//go:embed index.html
var Index []byte
