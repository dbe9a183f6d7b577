package template

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/metrics"
)

// entry maps a subject phrase to a template object key. Subjects are a
// controlled vocabulary set by the upstream producers, so containment
// matching against known phrases is sufficient.
type entry struct {
	phrase    string
	objectKey string
}

// Catalog is the subject-to-template table. Supporting a new event type
// means one more entry here plus one template object in the bucket.
type Catalog struct {
	entries []entry
	log     *zap.SugaredLogger
}

// DefaultCatalog returns the catalog of templates currently maintained in
// the template bucket.
func DefaultCatalog(log *zap.SugaredLogger) *Catalog {
	return NewCatalog(log, map[string]string{
		"New AWS IAM Access Key Pair Created": "IAM Auto Key Rotation Enforcement.html",
	})
}

// NewCatalog builds a catalog from phrase-to-object-key pairs.
func NewCatalog(log *zap.SugaredLogger, table map[string]string) *Catalog {
	c := &Catalog{log: log.Named("template-catalog")}
	for phrase, key := range table {
		c.entries = append(c.entries, entry{phrase: phrase, objectKey: key})
	}
	return c
}

// Lookup returns the template object key for a subject, matching by
// substring containment. An unknown subject yields an empty key and a
// warning; the pipeline proceeds with an empty template.
func (c *Catalog) Lookup(subject string) string {
	for _, e := range c.entries {
		if strings.Contains(subject, e.phrase) {
			c.log.Infow("selected email template", "subject", subject, "objectKey", e.objectKey)
			return e.objectKey
		}
	}
	c.log.Warnw("parser not found for event, need a catalog entry to support it",
		"subject", subject)
	metrics.TemplateMisses.Inc()
	return ""
}
