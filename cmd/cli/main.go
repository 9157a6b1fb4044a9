// clsview - Unity Console Log Viewer
//
// clsview reads ConsoleLogSaverData dumps saved from the Unity editor and
// reports their console entries and project details.
package main

import (
	"os"

	"github.com/ccollicutt/clsview/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
