// Package sink serializes scored rates and writes them to object storage as a
// single flat JSON document per invocation.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shopspring/decimal"

	"github.com/R3borN17/greenscore/internal/scoring"
)

// timestampFormat is how valid_from/valid_to render inside the payload.
const timestampFormat = "2006-01-02T15:04:05Z"

// ObjectPutter is the slice of the S3 API the writer needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Writer puts one JSON object per invocation into a bucket.
type Writer struct {
	client ObjectPutter
	bucket string
}

// NewWriter creates a writer for a bucket.
func NewWriter(client ObjectPutter, bucket string) *Writer {
	return &Writer{client: client, bucket: bucket}
}

// ObjectKey derives the object key for an invocation: the base name plus the
// invocation timestamp with colons replaced by hyphens, so the key is safe for
// tooling that mishandles colons in paths.
func ObjectKey(base string, t time.Time) string {
	stamp := strings.ReplaceAll(t.UTC().Format(timestampFormat), ":", "-")
	return fmt.Sprintf("%s-%s.json", base, stamp)
}

// record is the wire shape of one scored rate.
type record struct {
	Region               string          `json:"region"`
	ValidFrom            string          `json:"valid_from"`
	ValidTo              string          `json:"valid_to"`
	ValueIncVAT          decimal.Decimal `json:"value_inc_vat"`
	Forecast             decimal.Decimal `json:"forecast"`
	GreenScore           decimal.Decimal `json:"green_score"`
	NormalizedGreenScore decimal.Decimal `json:"normalized_green_score"`
}

// Encode renders the scored rates as the flat JSON array the sink writes.
func Encode(rates []scoring.ScoredRate) ([]byte, error) {
	records := make([]record, 0, len(rates))
	for _, r := range rates {
		records = append(records, record{
			Region:               string(r.Region),
			ValidFrom:            r.ValidFrom.UTC().Format(timestampFormat),
			ValidTo:              r.ValidTo.UTC().Format(timestampFormat),
			ValueIncVAT:          r.ValueIncVAT,
			Forecast:             r.Forecast,
			GreenScore:           r.GreenScore,
			NormalizedGreenScore: r.NormalizedGreenScore,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode scored rates: %w", err)
	}
	return data, nil
}

// Write serializes the rates and puts them under key.
func (w *Writer) Write(ctx context.Context, key string, rates []scoring.ScoredRate) error {
	data, err := Encode(rates)
	if err != nil {
		return err
	}

	_, err = w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}
