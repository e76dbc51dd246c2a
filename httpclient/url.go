package httpclient

import (
	"net/url"
	"strings"
)

// JoinURL joins base and path preserving explicit path semantics: trailing
// slashes on base are not collapsed unless path is itself absolute (starts
// with "/"). Query parameters already present on base are
// preserved and any from extraQuery are appended.
func JoinURL(base, path string, extraQuery map[string]string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(path, "/") {
		baseURL.Path = path
	} else {
		baseURL.Path = strings.TrimSuffix(baseURL.Path, "/") + "/" + path
	}

	query := baseURL.Query()
	for k, v := range extraQuery {
		query.Set(k, v)
	}

	baseURL.RawQuery = query.Encode()

	return baseURL.String(), nil
}
