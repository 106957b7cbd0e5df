// Package pipeline loads a RAW file into the images a host asked for.
//
// Load translates the user's options once, then runs the primary full
// development alongside the preview and thumbnail slots. A failed primary
// development is returned as an error. Preview and thumbnail slots always
// produce an image, falling back to a placeholder.
package pipeline
