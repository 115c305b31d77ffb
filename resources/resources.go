package resources

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// FetchHTTP
// Fetch a resource from a remote HTTP server with optional bearer token auth.
func FetchHTTP(client *http.Client, uri string, auth string) (io.ReadCloser,
	uint64, error) {
	req, reqErr := http.NewRequest("GET", uri, nil)
	if reqErr != nil {
		return nil, 0, reqErr
	}
	if auth != "" {
		req.Header.Add("Authorization", "Bearer "+auth)
	}
	resp, remoteErr := client.Do(req)
	if remoteErr != nil {
		return nil, 0, remoteErr
	}
	if resp.StatusCode != 200 {
		resp.Body.Close()
		return nil, 0, errors.New(fmt.Sprintf("HTTP status code %d for %s",
			resp.StatusCode, uri))
	}
	size, _ := strconv.ParseUint(resp.Header.Get("Content-Length"), 10, 64)
	return resp.Body, size, nil
}

// SizeHTTP
// Get the size of a resource from a remote HTTP server with optional bearer
// token auth.
func SizeHTTP(client *http.Client, uri string, auth string) (uint64, error) {
	req, reqErr := http.NewRequest("HEAD", uri, nil)
	if reqErr != nil {
		return 0, reqErr
	}
	if auth != "" {
		req.Header.Add("Authorization", "Bearer "+auth)
	}
	resp, remoteErr := client.Do(req)
	if remoteErr != nil {
		return 0, remoteErr
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		return 0, errors.New(fmt.Sprintf("HTTP status code %d for %s",
			resp.StatusCode, uri))
	}
	size, _ := strconv.ParseUint(resp.Header.Get("Content-Length"), 10, 64)
	return size, nil
}
