package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/getmockd/tfxmock/pkg/store"
)

// pathInt parses a positive integer path parameter.
func pathInt(c *call, name string) (int, error) {
	raw := c.params.ByName(name)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &store.ValidationError{Field: name, Message: fmt.Sprintf("%q is not a valid id", raw)}
	}
	return n, nil
}

// queryBool parses an optional boolean query value.
func queryBool(c *call, key string) (bool, error) {
	raw := c.req.First(key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &store.ValidationError{Field: key, Message: fmt.Sprintf("%q is not a boolean", raw)}
	}
	return b, nil
}

// queryInt parses an optional non-negative integer query value.
func queryInt(c *call, key string) (int, error) {
	raw := c.req.First(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &store.ValidationError{Field: key, Message: fmt.Sprintf("%q is not a non-negative integer", raw)}
	}
	return n, nil
}

// queryIDs parses a comma separated id list such as ids=1,2,3.
func queryIDs(c *call, key string) ([]int, error) {
	raw := c.req.First(key)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, &store.ValidationError{Field: key, Message: fmt.Sprintf("%q is not a valid id", part)}
		}
		ids = append(ids, n)
	}
	return ids, nil
}
