// Package correlate maintains per-UE state across S1AP procedures. The
// UECorrelator merges subscriber identifiers (IMSI, TMSI, IMEISV, S1AP
// IDs, GTP TEIDs) into long-lived records; the Correlator on top of it
// keys live UE contexts for event attribution.
package correlate

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/melrosenetworks/S1-SEE/internal/log"
	"github.com/melrosenetworks/S1-SEE/internal/s1ap"
)

var logger = log.WithPrefix("correlate")

// SubscriberRecord accumulates every identifier observed for one UE.
// Zero values mean the identifier has not been seen.
type SubscriberRecord struct {
	ID uint64

	IMSI   string
	TMSI   string
	IMEISV string

	MMEUES1APID uint32
	ENBUES1APID uint32

	TEIDs map[uint32]struct{}

	FirstSeen time.Time
	LastSeen  time.Time
}

// TEIDList returns the record's TEIDs in ascending order.
func (r *SubscriberRecord) TEIDList() []uint32 {
	out := make([]uint32, 0, len(r.TEIDs))
	for teid := range r.TEIDs {
		out = append(out, teid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Identifiers carries the identifiers extracted from one message.
// Empty strings and zero values mean absent.
type Identifiers struct {
	IMSI   string
	TMSI   string
	IMEISV string

	MMEUES1APID uint32
	ENBUES1APID uint32
	TEID        uint32
}

func (ids Identifiers) hasStable() bool {
	return ids.IMSI != "" || ids.TMSI != "" || ids.IMEISV != ""
}

func (ids Identifiers) empty() bool {
	return !ids.hasStable() && ids.MMEUES1APID == 0 && ids.ENBUES1APID == 0 && ids.TEID == 0
}

// UECorrelator is the subscriber arena. Records are never deleted;
// individual identifier associations move between records as the
// network reuses them.
type UECorrelator struct {
	mu      sync.Mutex
	records map[uint64]*SubscriberRecord
	nextID  uint64

	byIMSI   map[string]uint64
	byTMSI   map[string]uint64
	byIMEISV map[string]uint64
	byMME    map[uint32]uint64
	byENB    map[uint32]uint64
	byTEID   map[uint32]uint64
}

func NewUECorrelator() *UECorrelator {
	return &UECorrelator{
		records:  make(map[uint64]*SubscriberRecord),
		nextID:   1,
		byIMSI:   make(map[string]uint64),
		byTMSI:   make(map[string]uint64),
		byIMEISV: make(map[string]uint64),
		byMME:    make(map[uint32]uint64),
		byENB:    make(map[uint32]uint64),
		byTEID:   make(map[uint32]uint64),
	}
}

// ProcessFrame extracts every identifier from one parsed PDU and merges
// them into a single subscriber record. It returns nil when the PDU
// carries no usable identifier. A successful UEContextRelease outcome
// drops the connection-scoped S1AP IDs after the record is updated.
func (c *UECorrelator) ProcessFrame(res s1ap.ParseResult, ts time.Time) *SubscriberRecord {
	teids := s1ap.ExtractTEIDPatterns(res.RawBytes)
	tmsiOut := s1ap.ExtractTMSIs(res)
	teids = append(teids, tmsiOut.TEIDs...)

	imsis := s1ap.ExtractIMSIs(res)
	imeisvs := s1ap.ExtractIMEISVs(res)
	mme, enb, hasMME, hasENB := s1ap.ExtractS1APIDs(res)

	var ids Identifiers
	if len(imsis) > 0 {
		ids.IMSI = normalizeDigits(imsis[0])
	}
	if len(tmsiOut.TMSIs) > 0 {
		ids.TMSI = normalizeTMSI(tmsiOut.TMSIs[0])
	}
	if len(imeisvs) > 0 {
		ids.IMEISV = normalizeDigits(imeisvs[0])
	}
	if hasMME {
		ids.MMEUES1APID = mme
	}
	if hasENB {
		ids.ENBUES1APID = enb
	}

	if !ids.hasStable() && ids.MMEUES1APID == 0 && ids.ENBUES1APID == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.getOrCreate(ids)
	for _, teid := range teids {
		c.associateTEID(rec, teid)
	}

	if !ts.IsZero() {
		if rec.FirstSeen.IsZero() {
			rec.FirstSeen = ts
		}
		rec.LastSeen = ts
	}

	if res.ProcedureCode == 23 && res.PDUType == s1ap.SuccessfulOutcome {
		if hasMME {
			c.removeMME(mme)
		}
		if hasENB {
			c.removeENB(enb)
		}
	}

	return rec
}

// GetOrCreateSubscriber locates the record matching any of the provided
// identifiers, creating one when nothing matches, and folds the
// identifiers into it.
func (c *UECorrelator) GetOrCreateSubscriber(ids Identifiers) *SubscriberRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getOrCreate(ids)
}

func (c *UECorrelator) getOrCreate(ids Identifiers) *SubscriberRecord {
	var recID uint64

	// Lookup priority: stable identifiers first, then both S1AP IDs
	// mapping to the same record, then each ID alone, then TEID.
	if ids.IMSI != "" {
		recID = c.byIMSI[ids.IMSI]
	}
	if recID == 0 && ids.TMSI != "" {
		recID = c.byTMSI[ids.TMSI]
	}
	if recID == 0 && ids.IMEISV != "" {
		recID = c.byIMEISV[ids.IMEISV]
	}
	if recID == 0 && ids.MMEUES1APID != 0 && ids.ENBUES1APID != 0 {
		mid, eid := c.byMME[ids.MMEUES1APID], c.byENB[ids.ENBUES1APID]
		if mid != 0 && mid == eid {
			recID = mid
		}
	}
	if recID == 0 && ids.MMEUES1APID != 0 {
		recID = c.byMME[ids.MMEUES1APID]
	}
	if recID == 0 && ids.ENBUES1APID != 0 {
		recID = c.byENB[ids.ENBUES1APID]
	}
	if recID == 0 && ids.TEID != 0 {
		recID = c.byTEID[ids.TEID]
	}
	if recID == 0 && !ids.hasStable() && (ids.MMEUES1APID != 0 || ids.ENBUES1APID != 0) {
		recID = c.findUnindexed(ids)
	}

	rec := c.records[recID]
	if rec == nil {
		rec = &SubscriberRecord{ID: c.nextID, TEIDs: make(map[uint32]struct{})}
		c.nextID++
		c.records[rec.ID] = rec
		logger.Debugf("new subscriber record id=%d", rec.ID)
	}

	if ids.IMSI != "" {
		c.associateIMSI(rec, ids.IMSI)
	}
	if ids.TMSI != "" {
		c.associateTMSI(rec, ids.TMSI)
	}
	if ids.ENBUES1APID != 0 {
		c.associateENB(rec, ids.ENBUES1APID)
	}
	if ids.MMEUES1APID != 0 {
		c.associateMME(rec, ids.MMEUES1APID)
	}
	if ids.TEID != 0 {
		c.associateTEID(rec, ids.TEID)
	}
	if ids.IMEISV != "" {
		c.associateIMEISV(rec, ids.IMEISV)
	}
	return rec
}

// findUnindexed handles S1AP IDs that were dropped from the index on
// context release but survive in a record. A unique record whose
// present IDs all match wins; otherwise the most recent record holding
// a stable identifier absorbs the new connection.
func (c *UECorrelator) findUnindexed(ids Identifiers) uint64 {
	var match uint64
	for id, rec := range c.records {
		if rec.MMEUES1APID == 0 && rec.ENBUES1APID == 0 {
			continue
		}
		if ids.MMEUES1APID != 0 && rec.MMEUES1APID != ids.MMEUES1APID {
			continue
		}
		if ids.ENBUES1APID != 0 && rec.ENBUES1APID != ids.ENBUES1APID {
			continue
		}
		if match != 0 {
			match = 0
			break
		}
		match = id
	}
	if match != 0 {
		return match
	}

	var best uint64
	for id, rec := range c.records {
		if rec.IMSI == "" && rec.TMSI == "" {
			continue
		}
		if id > best {
			best = id
		}
	}
	return best
}

func (c *UECorrelator) associateIMSI(rec *SubscriberRecord, imsi string) {
	if rec.IMSI != "" {
		delete(c.byIMSI, rec.IMSI)
	}
	rec.IMSI = imsi
	c.byIMSI[imsi] = rec.ID
}

func (c *UECorrelator) associateTMSI(rec *SubscriberRecord, tmsi string) {
	if rec.TMSI != "" {
		delete(c.byTMSI, rec.TMSI)
	}
	rec.TMSI = tmsi
	c.byTMSI[tmsi] = rec.ID
}

func (c *UECorrelator) associateIMEISV(rec *SubscriberRecord, imeisv string) {
	if rec.IMEISV != "" {
		delete(c.byIMEISV, rec.IMEISV)
	}
	rec.IMEISV = imeisv
	c.byIMEISV[imeisv] = rec.ID
}

func (c *UECorrelator) associateMME(rec *SubscriberRecord, id uint32) {
	if prev := c.byMME[id]; prev != 0 && prev != rec.ID {
		if other := c.records[prev]; other != nil {
			other.MMEUES1APID = 0
			logger.Debugf("mme-ue-s1ap-id %d moved from subscriber %d to %d", id, prev, rec.ID)
		}
	}
	if rec.MMEUES1APID != 0 && rec.MMEUES1APID != id {
		delete(c.byMME, rec.MMEUES1APID)
	}
	rec.MMEUES1APID = id
	c.byMME[id] = rec.ID
}

func (c *UECorrelator) associateENB(rec *SubscriberRecord, id uint32) {
	if prev := c.byENB[id]; prev != 0 && prev != rec.ID {
		if other := c.records[prev]; other != nil {
			other.ENBUES1APID = 0
			logger.Debugf("enb-ue-s1ap-id %d moved from subscriber %d to %d", id, prev, rec.ID)
		}
	}
	if rec.ENBUES1APID != 0 && rec.ENBUES1APID != id {
		delete(c.byENB, rec.ENBUES1APID)
	}
	rec.ENBUES1APID = id
	c.byENB[id] = rec.ID
}

func (c *UECorrelator) associateTEID(rec *SubscriberRecord, teid uint32) {
	if prev := c.byTEID[teid]; prev != 0 && prev != rec.ID {
		if other := c.records[prev]; other != nil {
			delete(other.TEIDs, teid)
		}
	}
	rec.TEIDs[teid] = struct{}{}
	c.byTEID[teid] = rec.ID
}

// RemoveMMEAssociation drops the MME-UE-S1AP-ID from its record and the
// index. The record itself survives.
func (c *UECorrelator) RemoveMMEAssociation(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeMME(id)
}

func (c *UECorrelator) removeMME(id uint32) {
	recID, ok := c.byMME[id]
	if !ok {
		return
	}
	if rec := c.records[recID]; rec != nil {
		rec.MMEUES1APID = 0
	}
	delete(c.byMME, id)
}

// RemoveENBAssociation drops the eNB-UE-S1AP-ID from its record and the
// index.
func (c *UECorrelator) RemoveENBAssociation(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeENB(id)
}

func (c *UECorrelator) removeENB(id uint32) {
	recID, ok := c.byENB[id]
	if !ok {
		return
	}
	if rec := c.records[recID]; rec != nil {
		rec.ENBUES1APID = 0
	}
	delete(c.byENB, id)
}

// RemoveTEIDAssociation drops one TEID from its record and the index.
func (c *UECorrelator) RemoveTEIDAssociation(teid uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	recID, ok := c.byTEID[teid]
	if !ok {
		return
	}
	if rec := c.records[recID]; rec != nil {
		delete(rec.TEIDs, teid)
	}
	delete(c.byTEID, teid)
}

func (c *UECorrelator) SubscriberByIMSI(imsi string) *SubscriberRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records[c.byIMSI[imsi]]
}

func (c *UECorrelator) SubscriberByTMSI(tmsi string) *SubscriberRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records[c.byTMSI[tmsi]]
}

func (c *UECorrelator) SubscriberByIMEISV(imeisv string) *SubscriberRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records[c.byIMEISV[imeisv]]
}

func (c *UECorrelator) SubscriberByMMEID(id uint32) *SubscriberRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records[c.byMME[id]]
}

func (c *UECorrelator) SubscriberByENBID(id uint32) *SubscriberRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records[c.byENB[id]]
}

func (c *UECorrelator) SubscriberByTEID(teid uint32) *SubscriberRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records[c.byTEID[teid]]
}

// AllSubscribers returns every record ordered by subscriber ID.
func (c *UECorrelator) AllSubscribers() []*SubscriberRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*SubscriberRecord, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func normalizeDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func normalizeTMSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'a' && c <= 'f':
			b.WriteByte(c)
		case c >= 'A' && c <= 'F':
			b.WriteByte(c + 'a' - 'A')
		}
	}
	return b.String()
}
