package master

import (
	"encoding/json"
	"fmt"
	"strconv"

	dommaster "github.com/taskdesk/taskdesk/internal/domain/master"
)

func recordToHash(rec dommaster.Record) map[string]string {
	return map[string]string{
		"id":           rec.ID(),
		"name":         rec.Name(),
		"created":      strconv.FormatInt(rec.Created(), 10),
		"last_updated": strconv.FormatInt(rec.LastUpdated(), 10),
	}
}

func recordFromHash(m map[string]string) (dommaster.Record, error) {
	created, err := strconv.ParseInt(m["created"], 10, 64)
	if err != nil {
		return dommaster.Record{}, fmt.Errorf("parse created: %w", err)
	}
	lastUpdated, err := strconv.ParseInt(m["last_updated"], 10, 64)
	if err != nil {
		return dommaster.Record{}, fmt.Errorf("parse last_updated: %w", err)
	}
	return dommaster.ReconstructRecord(m["id"], m["name"], created, lastUpdated), nil
}

type itemRow struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func listToHash(l dommaster.List) (map[string]string, error) {
	rows := make([]itemRow, 0, len(l.Items()))
	for _, it := range l.Items() {
		rows = append(rows, itemRow{Value: it.Value, Label: it.Label})
	}
	itemsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	return map[string]string{
		"id":           l.ID(),
		"name":         l.Name(),
		"items_json":   string(itemsJSON),
		"created":      strconv.FormatInt(l.Created(), 10),
		"last_updated": strconv.FormatInt(l.LastUpdated(), 10),
	}, nil
}

func listFromHash(m map[string]string) (dommaster.List, error) {
	created, err := strconv.ParseInt(m["created"], 10, 64)
	if err != nil {
		return dommaster.List{}, fmt.Errorf("parse created: %w", err)
	}
	lastUpdated, err := strconv.ParseInt(m["last_updated"], 10, 64)
	if err != nil {
		return dommaster.List{}, fmt.Errorf("parse last_updated: %w", err)
	}

	var rows []itemRow
	if raw := m["items_json"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &rows); err != nil {
			return dommaster.List{}, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	items := make([]dommaster.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, dommaster.Item{Value: row.Value, Label: row.Label})
	}

	return dommaster.ReconstructList(m["id"], m["name"], items, created, lastUpdated), nil
}
