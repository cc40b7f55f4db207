// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deltas

import (
	"fmt"

	"go.uber.org/zap"

	"chain-node/state-history/errkind"
	"chain-node/state-history/logging"
)

// Row is one row of a Delta: its packed bytes and whether it is an
// upsert (Present) or a removal.
type Row struct {
	Present bool
	Data    []byte
}

// Delta is the compact per-table change description the extractor
// produces for one table in one block.
type Delta struct {
	Table Table
	Rows  []Row
}

// Observer receives a row count every time a table produces a non-empty
// delta. metrics.DeltaMetrics satisfies this without deltas importing the
// metrics package.
type Observer interface {
	ObserveDelta(table Table, rows int)
}

// Extractor computes Deltas from a ChainDatabase's undo stack.
type Extractor struct {
	log logging.Logger
	obs Observer
}

// NewExtractor returns an Extractor that logs to log.
func NewExtractor(log logging.Logger) *Extractor {
	return &Extractor{log: log}
}

// WithObserver attaches obs, which is notified of every non-empty delta
// this extractor produces from then on.
func (e *Extractor) WithObserver(obs Observer) *Extractor {
	e.obs = obs
	return e
}

// Extract walks Tables in order and returns one Delta per table that has a
// change to report. fresh must be true exactly when the chain-state log is
// still empty, in which case every non-empty table emits a full snapshot
// instead of an incremental delta.
func (e *Extractor) Extract(db ChainDatabase, fresh bool) ([]Delta, error) {
	deltas := make([]Delta, 0, len(Tables))
	for _, t := range Tables {
		d, err := e.extractTable(db, t, fresh)
		if err != nil {
			return nil, err
		}
		if d != nil {
			deltas = append(deltas, *d)
		}
	}
	return deltas, nil
}

func (e *Extractor) extractTable(db ChainDatabase, t Table, fresh bool) (*Delta, error) {
	idx := db.TableIndex(t)
	tables := db.ContractTableIndex()

	if fresh {
		ids := idx.Rows()
		if len(ids) == 0 {
			return nil, nil
		}
		rows := make([]Row, 0, len(ids))
		for _, id := range ids {
			data, tableID, ok := idx.Row(id)
			if !ok {
				continue
			}
			packed, err := packRow(t, RowSnapshot{ID: id, Data: data, TableID: tableID}, tables)
			if err != nil {
				return nil, err
			}
			rows = append(rows, Row{Present: true, Data: packed})
		}
		e.logDelta(t, len(rows))
		return &Delta{Table: t, Rows: rows}, nil
	}

	undo := db.UndoFrame(t)
	modified := undo.ModifiedIDs()
	inserted := undo.NewIDs()
	removed := undo.RemovedValues()
	if len(modified) == 0 && len(inserted) == 0 && len(removed) == 0 {
		return nil, nil
	}

	rows := make([]Row, 0, len(modified)+len(inserted)+len(removed))

	for _, id := range modified {
		data, tableID, ok := idx.Row(id)
		if !ok {
			return nil, fmt.Errorf("%w: modified row %d in %s has no current live value", errkind.InconsistentUndo, id, t)
		}
		packed, err := packRow(t, RowSnapshot{ID: id, Data: data, TableID: tableID}, tables)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Present: true, Data: packed})
	}

	for _, id := range inserted {
		data, tableID, ok := idx.Row(id)
		if !ok {
			return nil, fmt.Errorf("%w: inserted row %d in %s has no current live value", errkind.InconsistentUndo, id, t)
		}
		packed, err := packRow(t, RowSnapshot{ID: id, Data: data, TableID: tableID}, tables)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Present: true, Data: packed})
	}

	for _, snap := range removed {
		packed, err := packRow(t, snap, tables)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Present: false, Data: packed})
	}

	e.logDelta(t, len(rows))
	return &Delta{Table: t, Rows: rows}, nil
}

func (e *Extractor) logDelta(t Table, rowCount int) {
	if e.log != nil {
		e.log.Debug("produced table delta",
			zap.String("table", string(t)),
			zap.Int("rows", rowCount),
		)
	}
	if e.obs != nil {
		e.obs.ObserveDelta(t, rowCount)
	}
}
