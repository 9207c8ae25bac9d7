package engine

import (
	"strings"

	"github.com/getmockd/tfxmock/pkg/api/types"
)

// apiVersion is the highest API version the simulated server advertises.
const apiVersion = "7.1"

// resourceLocations lists one location per resource. Trailing template
// segments are optional, so the tasks location also serves the list, the
// by-id and the by-version routes, and the work item location with no {id}
// is the ?ids= batch route.
var resourceLocations = []types.ResourceLocation{
	location("00d9565f-ed9c-4a06-9a50-00e7896ccab4", "Location", "ConnectionData", "_apis/{resource}", 1),
	location("603fe2ac-9723-48b9-88ad-09305aa6c6e1", "core", "projects", "_apis/{resource}/{*projectId}", 4),
	location("dbeaf647-6167-421a-bda9-c9327b25e2e6", "build", "definitions", "{project}/_apis/build/{resource}/{definitionId}", 7),
	location("0cd358e1-9217-4d94-8269-1c1ee6f93dcf", "build", "builds", "{project}/_apis/build/{resource}/{buildId}", 7),
	location("60aac929-f0cd-4bc8-9ce4-6b30e8f1b1bd", "distributedtask", "tasks", "_apis/distributedtask/{resource}/{taskId}/{versionString}", 1),
	location("72c7ddf8-2cdc-4f60-90cd-ab71c14a399b", "wit", "workItems", "{project}/_apis/{area}/{resource}/{id}", 3),
	location("62d3d110-0047-428c-ad3c-4fe872c91c74", "wit", "workItems", "{project}/_apis/{area}/{resource}/${type}", 3),
}

func location(id, area, resource, template string, version int) types.ResourceLocation {
	return types.ResourceLocation{
		ID:              id,
		Area:            area,
		ResourceName:    resource,
		RouteTemplate:   template,
		ResourceVersion: version,
		MinVersion:      "1.0",
		MaxVersion:      apiVersion,
		ReleasedVersion: apiVersion,
	}
}

// locationsFor returns the locations of area, matched ignoring case. An
// empty area returns every location.
func locationsFor(area string) []types.ResourceLocation {
	out := make([]types.ResourceLocation, 0, len(resourceLocations))
	for _, l := range resourceLocations {
		if area == "" || strings.EqualFold(l.Area, area) {
			out = append(out, l)
		}
	}
	return out
}
