// Package descriptor loads JUCE project descriptors (.jucer files), exposes
// their identity, channel and exporter settings as a typed Project, and
// customizes a plugin template for a product name and channel configuration.
// Encoding is deterministic so customized descriptors can be compared byte
// for byte.
package descriptor
