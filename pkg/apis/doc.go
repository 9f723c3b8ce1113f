// Package apis provides API type definitions for geostack configuration.
//
//   - deploy: The deployment configuration read from geostack.yaml
package apis
