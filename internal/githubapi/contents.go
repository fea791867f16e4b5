package githubapi

import (
	"context"
	"strings"
)

// ContentStatus classifies the outcome of a contents lookup.
type ContentStatus string

// Content lookup outcomes.
const (
	ContentFound    ContentStatus = ContentStatus("found")
	ContentNotFound ContentStatus = ContentStatus("not_found")
	ContentFailed   ContentStatus = ContentStatus("failed")
)

// ContentEntry is a file or directory entry returned for a path.
type ContentEntry struct {
	Name string
	Path string
}

// ContentLookup is the typed result of LookupContent.
// Entries is populated only for ContentFound and Cause only for ContentFailed.
type ContentLookup struct {
	Path    string
	Status  ContentStatus
	Entries []ContentEntry
	Cause   error
}

// Found reports whether the path exists.
func (lookup ContentLookup) Found() bool {
	return lookup.Status == ContentFound
}

// LookupContent fetches the file or directory at path. Only a 404 is reported as not found;
// every other failure is ContentFailed and carries its cause.
func (client *Client) LookupContent(requestContext context.Context, reference RepositoryReference, path string) ContentLookup {
	lookup := ContentLookup{Path: path}

	if validationError := reference.Validate(); validationError != nil {
		lookup.Status = ContentFailed
		lookup.Cause = validationError
		return lookup
	}
	if len(strings.TrimSpace(path)) == 0 {
		lookup.Status = ContentFailed
		lookup.Cause = InvalidInputError{FieldName: pathFieldNameConstant, Message: requiredValueMessageConstant}
		return lookup
	}

	fileContent, directoryContent, response, getError := client.rest.Repositories.GetContents(requestContext, reference.Owner, reference.Name, path, nil)
	if getError != nil {
		if isNotFound(response) {
			lookup.Status = ContentNotFound
			return lookup
		}
		lookup.Status = ContentFailed
		lookup.Cause = newOperationError(lookupContentOperationNameConstant, response, getError)
		return lookup
	}

	lookup.Status = ContentFound
	if fileContent != nil {
		lookup.Entries = []ContentEntry{{Name: fileContent.GetName(), Path: fileContent.GetPath()}}
		return lookup
	}

	lookup.Entries = make([]ContentEntry, 0, len(directoryContent))
	for _, entry := range directoryContent {
		lookup.Entries = append(lookup.Entries, ContentEntry{Name: entry.GetName(), Path: entry.GetPath()})
	}
	return lookup
}
