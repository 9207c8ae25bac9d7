package archive

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// manifestSchemaJSON describes the task.json fields registration relies on.
// Version components may be numbers or numeric strings, in either case.
const manifestSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "version"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string", "minLength": 1},
    "friendlyName": {"type": "string"},
    "description": {"type": "string"},
    "category": {"type": "string"},
    "author": {"type": "string"},
    "visibility": {"type": "array", "items": {"type": "string"}},
    "instanceNameFormat": {"type": "string"},
    "version": {
      "oneOf": [
        {"type": "string", "pattern": "^v?[0-9]+(\\.[0-9]+){0,2}$"},
        {
          "type": "object",
          "patternProperties": {
            "^([Mm]ajor|[Mm]inor|[Pp]atch)$": {
              "type": ["integer", "string"],
              "pattern": "^[0-9]+$",
              "minimum": 0
            }
          }
        }
      ]
    }
  }
}`

const manifestSchemaURL = "task.schema.json"

var manifestSchema = compileManifestSchema()

func compileManifestSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(manifestSchemaURL, strings.NewReader(manifestSchemaJSON)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(manifestSchemaURL)
}
