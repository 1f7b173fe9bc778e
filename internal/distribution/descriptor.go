// Package distribution describes the wheel distributions bundled with the
// bootstrapper and derives cache file names and expected content hashes
// from their download URLs.
package distribution

import (
	"fmt"
	"net/url"
	"strings"
)

// The pinned distributions, in install order. The SHA-256 of each wheel is
// carried in the URL fragment so a single string pins both location and
// content.
var projectURLs = []string{
	"https://files.pythonhosted.org/packages/c8/b0/" +
		"cc6b7ba28d5fb790cf0d5946df849233e32b8872b6baca10c9e002ff5b41/" +
		"setuptools-41.0.0-py2.py3-none-any.whl#" +
		"sha256=e67486071cd5cdeba783bd0b64f5f30784ff855b35071c8670551fd7fc52d4a1",

	"https://files.pythonhosted.org/packages/d8/f3/" +
		"413bab4ff08e1fc4828dfc59996d721917df8e8583ea85385d51125dceff/" +
		"pip-19.0.3-py2.py3-none-any.whl#" +
		"sha256=bd812612bbd8ba84159d9ddc0266b7fbce712fc9bc98c82dee5750546ec8ec64",
}

// Descriptor identifies one downloadable distribution archive. FileName and
// SHA256 are derived from URL; an empty SHA256 means the URL carried no
// expected hash and integrity checking is skipped for this entry.
type Descriptor struct {
	URL      string
	FileName string
	SHA256   string
}

// Parse splits a download URL into a Descriptor. The file name is the last
// path segment; the expected hash is the first `sha256` value in the URL
// fragment, parsed as a query string. A missing fragment or missing key is
// not an error.
func Parse(rawURL string) (Descriptor, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Descriptor{}, fmt.Errorf("parsing distribution URL %q: %w", rawURL, err)
	}

	segments := strings.Split(u.Path, "/")
	fileName := segments[len(segments)-1]

	var sha string
	fragment, err := url.ParseQuery(strings.TrimSpace(u.Fragment))
	if err == nil {
		sha = fragment.Get("sha256")
	}

	return Descriptor{URL: rawURL, FileName: fileName, SHA256: sha}, nil
}

// NameAndVersion splits the wheel file name into its project name and
// version fields.
func (d Descriptor) NameAndVersion() (name, version string) {
	parts := strings.SplitN(d.FileName, "-", 3)
	name = parts[0]
	if len(parts) > 1 {
		version = parts[1]
	}
	return name, version
}

// Bundled returns the pinned distribution list in install order. The list
// is rebuilt on every call so callers can never mutate the configuration.
func Bundled() ([]Descriptor, error) {
	return FromURLs(projectURLs)
}

// FromURLs parses an ordered URL list into descriptors, preserving order.
func FromURLs(urls []string) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0, len(urls))
	for _, u := range urls {
		d, err := Parse(u)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}
