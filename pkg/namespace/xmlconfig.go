package namespace

import (
	"github.com/beevik/etree"

	"github.com/davidmrtn/jobtree/pkg/errors"
)

// CanonicalizeConfig parses a job's XML config document and re-serializes it
// with stable indentation, so that stored configs compare byte-for-byte.
func CanonicalizeConfig(raw string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return "", errors.Wrap(err, errors.ErrBadConfig, "job config is not well-formed XML")
	}
	if doc.Root() == nil {
		return "", errors.New(errors.ErrBadConfig, "job config has no root element")
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrBadConfig, "failed to serialize job config")
	}
	return out, nil
}

// ConfigSummary returns the root element name of a job's config document,
// or an empty string when the job has no config.
func ConfigSummary(n *Node) string {
	if n.Config() == "" {
		return ""
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(n.Config()); err != nil || doc.Root() == nil {
		return ""
	}
	return doc.Root().Tag
}
