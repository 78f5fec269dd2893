/*
Package retrolens renders a "then and now" split view of a photo: the canvas is divided
by a vertical divider, the left side shows the photo as it is, while the right side shows
the same photo through a film preset simulating an aged print. A sparse grain overlay
can be added on top and the composite exported as an image file.

The package provides a command line interface, supporting various flags for the split position,
the film preset and the grain. To check the supported commands type:

	$ retrolens --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/retrolens/retrolens"
	)

	func main() {
		s := retrolens.NewSession(retrolens.Options{})
		if err := s.LoadFrom(in); err != nil {
			fmt.Printf("Error loading the image: %s", err.Error())
		}
		s.SetSplit(0.3)
		s.SetGrainLevel(40)

		if err := s.Export(out, ".jpg", 90); err != nil {
			fmt.Printf("Error exporting the image: %s", err.Error())
		}
	}
*/
package retrolens
