package dataselect

import (
	"encoding/json"

	"github.com/grailbio/base/log"
	"github.com/nats-io/nats.go"

	"github.com/earthscope-oss/dataselect/writer"
)

// passCompleteMessage is the JSON document published on pass completion:
// enough for an external POD driver to react to new output without
// polling the filesystem.
type passCompleteMessage struct {
	Files []writer.FileStats `json:"files"`
}

// Notify publishes result to subject over a NATS connection to url.
// Publish failures are logged and do not fail the pass: notification is
// fire-and-forget.
func Notify(url, subject string, result Result) {
	nc, err := nats.Connect(url)
	if err != nil {
		log.Error.Printf("dataselect: notify connect %s: %v", url, err)
		return
	}
	defer nc.Close()

	payload, err := json.Marshal(passCompleteMessage{Files: result.Files})
	if err != nil {
		log.Error.Printf("dataselect: notify marshal: %v", err)
		return
	}
	if err := nc.Publish(subject, payload); err != nil {
		log.Error.Printf("dataselect: notify publish %s: %v", subject, err)
		return
	}
	if err := nc.Flush(); err != nil {
		log.Error.Printf("dataselect: notify flush %s: %v", subject, err)
	}
}
