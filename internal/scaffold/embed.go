// Package scaffold embeds the starter workflow files installed by the init
// command. The embedded filesystem is rooted at "starter/" and contains a
// three-team workflow declaration, its instruction templates, and a project
// config file.
package scaffold

import "embed"

// StarterFS contains the embedded starter files. Walk from "starter" to
// iterate over all files.
//
//go:embed all:starter
var StarterFS embed.FS

// Root is the directory inside StarterFS that holds the starter files.
const Root = "starter"
