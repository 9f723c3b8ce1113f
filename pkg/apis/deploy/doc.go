// Package deploy provides the geostack configuration API types.
//
//   - v1alpha1: current configuration version, read from geostack.yaml
package deploy
