// Package semver implements the three-part versions carried by task
// definitions.
//
// A Version is ordered lexicographically by Major, then Minor, then Patch.
// Fields that are absent from a JSON document decode as 0, so a record with
// no version at all is treated as 0.0.0.
//
// Task manifests in the wild spell the keys either way ("major" or
// "Major") and sometimes quote the numbers ("1" instead of 1); Version's
// UnmarshalJSON accepts all of those forms.
package semver
