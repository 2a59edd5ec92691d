package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "zerohunger-chat/internal/common/errors"
	"zerohunger-chat/internal/common/logger"
)

// ReportingIndex mirrors dispatched records into Elasticsearch for
// operational dashboards. Indexing never blocks the conversation.
type ReportingIndex struct {
	client *elasticsearch.Client
	index  string
	log    logger.Logger
}

func NewReportingIndex(client *elasticsearch.Client, index string, log logger.Logger) *ReportingIndex {
	return &ReportingIndex{
		client: client,
		index:  index,
		log:    log,
	}
}

func (r *ReportingIndex) Notify(ctx context.Context, rec *Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return apperrors.NewReportingIndexFailedError(err)
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(doc),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(rec.ID),
	)
	if err != nil {
		return apperrors.NewReportingIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewReportingIndexFailedError(
			fmt.Errorf("index response: %s", res.Status()),
		)
	}

	r.log.Debug("Record indexed for reporting", map[string]interface{}{
		"requestId": rec.ID,
		"index":     r.index,
	})
	return nil
}
