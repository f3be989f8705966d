package jarr

/*
Buffered writer state machine.

Owns the ordered queue of pending entries and drives the
open → scan → build → truncate → write → close cycle. Guarantees:
  - at most one file mutation cycle in flight per writer instance
    (concurrent Flush callers attach to the same in-flight operation)
  - entries are never duplicated and never lost: on any failed cycle the
    drained batch is re-inserted at the queue front ahead of entries
    appended meanwhile, preserving order
  - the file handle is closed on every exit path of a cycle
  - the shutdown latch is one-way: once set, Append becomes a no-op,
    even while an earlier flush is still draining

Concurrency notes:
  - qMtx guards the queue, the in-flight handle, the state enum and the
    shutdown latch; it is never held across file I/O.
  - a second Flush while one is in progress awaits the same flushOp
    instead of racing a second mutation (mutex-guarded compare on the
    single optionally-held handle).
  - the writer never self-chains: entries appended during a cycle wait
    for the next explicit or threshold-triggered flush.
  - there is no cancellation and no automatic retry of a failed flush;
    any retry policy belongs to the caller.
*/

import (
	"errors"
	"io"
	"sync"
)

// flushOp identifies one in-flight drain-and-write cycle. All concurrent
// flush requests observe the same handle: they wait on done and read err
// afterwards (err is written before done is closed).
type flushOp struct {
	done chan struct{}
	err  error
}

// Writer appends JSON-serializable entries to a file holding a single
// JSON array, patching only a bounded suffix of the file per flush.
// Construct with Init or InitWithParams; zero value is not usable.
type Writer struct {
	sync struct {
		qMtx    sync.Mutex   // guards queue, inflight, state and shutdown latch
		fbckMtx sync.RWMutex // guards access to fallback writer
	}
	path     string
	params   Params
	fallbck  io.Writer // sink for suppressed threshold-flush errors
	queue    []any     // pending entries in append order
	inflight *flushOp  // non-nil while exactly one cycle runs
	state    wrState
	shutdown bool // one-way latch
}

// Append queues one entry for the next flush. When the shutdown latch is
// set the call is a no-op (the entry is dropped, not queued). If the queue
// reaches the configured threshold an automatic flush is triggered: its
// error is returned to the caller, unless Silent is set, in which case the
// flush runs detached and failures go to the fallback writer.
func (w *Writer) Append(entry any) error {
	w.sync.qMtx.Lock()
	if w.shutdown {
		w.sync.qMtx.Unlock()
		return nil
	}
	w.queue = append(w.queue, entry)
	trigger := w.params.Threshold != THRESHOLD_UNBOUNDED && len(w.queue) >= w.params.Threshold
	w.sync.qMtx.Unlock()
	if !trigger {
		return nil
	}
	if w.params.Silent {
		// fire-and-forget: the shared in-flight handle keeps this race-free
		go func() {
			if err := w.flush(false); err != nil {
				w.handleFlushError(err.Error())
			}
		}()
		return nil
	}
	return w.flush(false)
}

// Flush drains all currently queued entries into the file in one mutation.
// If a flush is already in progress the call awaits that same operation
// and returns its result; no second mutation is started. With an empty
// queue it returns immediately without any I/O.
func (w *Writer) Flush() error {
	return w.flush(false)
}

// Close sets the shutdown latch and then flushes. The latch takes effect
// immediately — entries submitted after Close is called are dropped even
// if an earlier flush is still in flight — while entries queued before
// the call are drained normally.
func (w *Writer) Close() error {
	return w.flush(true)
}

// Pending returns the number of queued entries not yet part of a cycle.
func (w *Writer) Pending() int {
	w.sync.qMtx.Lock()
	defer w.sync.qMtx.Unlock()
	return len(w.queue)
}

// IsFlushing reports whether a drain-and-write cycle is currently running.
func (w *Writer) IsFlushing() bool {
	w.sync.qMtx.Lock()
	defer w.sync.qMtx.Unlock()
	return w.state == _STATE_FLUSHING
}

// IsShutdown reports whether the one-way shutdown latch has been set.
func (w *Writer) IsShutdown() bool {
	w.sync.qMtx.Lock()
	defer w.sync.qMtx.Unlock()
	return w.shutdown
}

// Sets the fallback output used to report suppressed flush errors,
// io.Discard is used instead of nil to silently drop fallback messages.
//
// The operation is protected by mutex for thread safety.
func (w *Writer) SetFallback(f io.Writer) *Writer {
	w.sync.fbckMtx.Lock()
	defer w.sync.fbckMtx.Unlock()
	if f != nil {
		w.fallbck = f
	} else {
		w.fallbck = io.Discard
	}
	return w
}

// flush implements the state machine transitions shared by Flush, Close
// and threshold-triggered flushes. With shutdown set it latches before
// anything else, regardless of the current state.
func (w *Writer) flush(shutdown bool) error {
	w.sync.qMtx.Lock()
	if shutdown {
		w.shutdown = true
	}
	if op := w.inflight; op != nil {
		// attach to the existing cycle instead of starting a second one
		w.sync.qMtx.Unlock()
		<-op.done
		return op.err
	}
	if len(w.queue) == 0 {
		w.sync.qMtx.Unlock()
		return nil
	}
	// atomic take-all: entries appended after this point belong to the
	// next cycle, not to this one
	batch := w.queue
	w.queue = nil
	op := &flushOp{done: make(chan struct{})}
	w.inflight = op
	w.state = normState(_STATE_FLUSHING)
	w.sync.qMtx.Unlock()

	err := w.writeBatch(batch)

	w.sync.qMtx.Lock()
	if err != nil {
		// restoration: the failed batch goes back to the front, ahead of
		// anything appended while the cycle ran, in original order
		w.queue = append(batch, w.queue...)
	}
	w.inflight = nil
	w.state = normState(_STATE_IDLE)
	w.sync.qMtx.Unlock()

	op.err = err
	close(op.done)
	return err
}

// writeBatch performs one full file mutation cycle for the drained batch.
// The handle is closed unconditionally; a close error surfaces only when
// the cycle itself succeeded.
func (w *Writer) writeBatch(batch []any) (err error) {
	fh, err := w.params.Open(w.path, w.params.AutoInit)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fh.Close(); err == nil {
			err = cerr
		}
	}()
	scan, err := scanTail(fh)
	if err != nil {
		return err
	}
	if !scan.hasBracket() {
		if len(scan.trimmed) > 0 || !w.params.AutoInit {
			return errors.New(_ERROR_MESSAGE_NO_BRACKET)
		}
		// fresh array: whole-file initialization, not a truncate/patch
		text, merr := marshalBatch(batch, w.params.Pretty, w.params.Indent)
		if merr != nil {
			return merr
		}
		_, err = fh.WriteAt(text, scan.size)
		return err
	}
	patch, offset, err := buildInsertion(batch, w.params.Pretty, w.params.Indent, scan)
	if err != nil {
		return err
	}
	// truncate and write are a tight pair; a write failure after a
	// successful truncate leaves the file shorter than before — the batch
	// stays queued and a later flush re-forms the tail
	if err = fh.Truncate(offset); err != nil {
		return err
	}
	_, err = fh.WriteAt(patch, offset)
	return err
}

// handleFlushError writes a human-readable error message to the fallback
// writer. A read lock is used since we only need consistent access to fallbck.
func (w *Writer) handleFlushError(errormsg string) {
	w.sync.fbckMtx.RLock()
	defer w.sync.fbckMtx.RUnlock()
	if w.fallbck != nil {
		w.fallbck.Write([]byte(errormsg + "\n"))
	}
}
