//go:build !ebiten

package app

import "fmt"

// Run reports that the GUI previewer needs the ebiten build tag.
func Run(Config) error {
	return fmt.Errorf("the previewer requires building with the 'ebiten' tag")
}
