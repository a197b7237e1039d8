// Package utils holds small helpers shared by the controllers and the
// dispatcher. [Timer] measures the duration recorded on spans and histograms.
package utils
