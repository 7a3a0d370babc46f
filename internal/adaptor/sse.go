package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"sokoni/internal/docstore"
)

// streamJSON pushes values from ch to the client as server-sent events
// until the client disconnects or the channel closes. A terminal stream
// error becomes one final "error" event; the client owns reconnection.
func streamJSON[T any](w http.ResponseWriter, r *http.Request, log *zap.Logger, ch <-chan T, errFn func() error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case v, open := <-ch:
			if !open {
				if errFn != nil {
					if err := errFn(); err != nil {
						log.Error("Stream ended with error", zap.Error(err))
						fmt.Fprintf(w, "event: error\ndata: %q\n\n", "stream failed")
						flusher.Flush()
					}
				}
				return
			}

			payload, err := json.Marshal(v)
			if err != nil {
				log.Error("Stream payload marshal failed", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// streamSnapshots serves a document stream, flattening each document into
// its payload plus an "id" field.
func streamSnapshots(w http.ResponseWriter, r *http.Request, log *zap.Logger, stream *docstore.Stream) {
	defer stream.Close()

	flat := make(chan []map[string]any, 1)
	go func() {
		defer close(flat)
		for snap := range stream.Snapshots() {
			out := make([]map[string]any, 0, len(snap))
			for _, doc := range snap {
				entry := make(map[string]any, len(doc.Data)+1)
				for k, v := range doc.Data {
					entry[k] = v
				}
				entry["id"] = doc.ID
				out = append(out, entry)
			}
			select {
			case flat <- out:
			case <-r.Context().Done():
				return
			}
		}
	}()

	streamJSON(w, r, log, flat, stream.Err)
}
