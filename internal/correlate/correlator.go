package correlate

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/melrosenetworks/S1-SEE/internal/core"
	"github.com/melrosenetworks/S1-SEE/internal/s1ap"
)

// DefaultContextExpiry is how long an idle UE context survives before
// CleanupExpired removes it.
const DefaultContextExpiry = 5 * time.Minute

// Config controls the Correlator.
type Config struct {
	ContextExpiry time.Duration
}

// Correlator assigns every decoded message a subscriber key and keeps
// the UE context behind that key current. It layers keyed contexts on
// top of the UECorrelator arena, which owns identifier merging.
type Correlator struct {
	mu  sync.RWMutex
	cfg Config

	ue            *UECorrelator
	contexts      map[string]*UEContext
	nextUnknownID uint64
}

func New(cfg Config) *Correlator {
	if cfg.ContextExpiry <= 0 {
		cfg.ContextExpiry = DefaultContextExpiry
	}
	return &Correlator{
		cfg:           cfg,
		ue:            NewUECorrelator(),
		contexts:      make(map[string]*UEContext),
		nextUnknownID: 1,
	}
}

// decodedTree mirrors the JSON produced by the decoder.
type decodedTree struct {
	PDUType             int               `json:"pdu_type"`
	InformationElements map[string]string `json:"information_elements"`
}

// GetOrCreateContext correlates one message to a UE context and
// returns its subscriber key. Messages carrying no identifier at all
// return the empty key. UEContextReleaseComplete never creates a new
// context. The frame-level correlation it runs first can still create a
// subscriber record for S1AP IDs not seen before; the per-connection IDs
// of the matched record are then released.
func (c *Correlator) GetOrCreateContext(msg *core.CanonicalMessage) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.rebuildParseResult(msg)
	rec := c.ue.ProcessFrame(res, time.Now())

	imsi, tmsi, imeisv := msg.IMSI, msg.TMSI, msg.IMEISV
	mmeID, enbID := messageS1APIDs(msg, res)

	existingKey, existing := c.findContext(imsi, tmsi, imeisv, mmeID, enbID)
	if existing != nil {
		if imsi == "" {
			imsi = existing.IMSI
		}
		if tmsi == "" {
			tmsi = existing.TMSI
		}
		if imeisv == "" {
			imeisv = existing.IMEI
		}
		if mmeID == 0 {
			mmeID = existing.MMEUES1APID
		}
		if enbID == 0 {
			enbID = existing.ENBUES1APID
		}
	}

	if imsi == "" && tmsi == "" && imeisv == "" && mmeID == 0 && enbID == 0 {
		return ""
	}

	isRelease := msg.MsgType == "UEContextReleaseComplete"

	switch {
	case rec == nil && isRelease:
		rec = c.lookupSubscriber(imsi, tmsi, imeisv, mmeID, enbID)
		if rec == nil {
			return ""
		}
	case rec == nil,
		!isRelease && (imsi != "" && rec.IMSI == "" ||
			tmsi != "" && rec.TMSI == "" ||
			imeisv != "" && rec.IMEISV == ""):
		// Fold in identifiers the frame-level extraction could not see,
		// such as canonical fields on messages without a decoded tree.
		rec = c.ue.GetOrCreateSubscriber(Identifiers{
			IMSI:        imsi,
			TMSI:        tmsi,
			IMEISV:      imeisv,
			MMEUES1APID: mmeID,
			ENBUES1APID: enbID,
		})
	}

	key := c.subscriberKey(rec)

	if existing != nil {
		if key != existingKey && keyOutranks(key, existingKey) {
			existing.SubscriberKey = key
			c.contexts[key] = existing
			delete(c.contexts, existingKey)
			c.updateContextFromSubscriber(existing, rec, msg)
			return key
		}
		c.updateContextFromSubscriber(existing, rec, msg)
		if key != existingKey {
			return existingKey
		}
		return key
	}

	if isRelease {
		return ""
	}

	ctx := &UEContext{}
	c.updateContextFromSubscriber(ctx, rec, msg)
	ctx.SubscriberKey = key
	c.contexts[key] = ctx
	return key
}

// UpdateContext correlates the message and discards the key.
func (c *Correlator) UpdateContext(msg *core.CanonicalMessage) {
	c.GetOrCreateContext(msg)
}

// GetContext returns the context stored under key, or nil.
func (c *Correlator) GetContext(key string) *UEContext {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.contexts[key]
}

// ContextCount returns the number of live contexts.
func (c *Correlator) ContextCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.contexts)
}

// CleanupExpired drops every context idle longer than the configured
// expiry and returns how many were removed.
func (c *Correlator) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, ctx := range c.contexts {
		if ctx.IsExpired(c.cfg.ContextExpiry) {
			delete(c.contexts, key)
			removed++
		}
	}
	return removed
}

// rebuildParseResult reconstitutes the parser view of the message so
// the arena correlator can re-run identifier extraction. IEs come from
// the decoded tree; the envelope IDs are injected when the tree lacks
// them.
func (c *Correlator) rebuildParseResult(msg *core.CanonicalMessage) s1ap.ParseResult {
	res := s1ap.ParseResult{
		Decoded:       !msg.DecodeFailed,
		ProcedureCode: msg.ProcedureCode,
		ProcedureName: msg.MsgType,
		IEs:           make(map[string]string),
		RawBytes:      msg.RawBytes,
	}

	if msg.DecodedTree != "" {
		var tree decodedTree
		if err := json.Unmarshal([]byte(msg.DecodedTree), &tree); err != nil {
			logger.Debugf("decoded tree unmarshal: %v", err)
		} else {
			res.PDUType = s1ap.PDUType(tree.PDUType)
			for name, value := range tree.InformationElements {
				res.IEs[name] = value
			}
		}
	}

	if msg.MMEUES1APID != 0 {
		if _, ok := res.IEs["MME-UE-S1AP-ID"]; !ok {
			res.IEs["MME-UE-S1AP-ID"] = fmt.Sprintf("%08x", msg.MMEUES1APID)
		}
	}
	if msg.ENBUES1APID != 0 {
		if _, ok := res.IEs["eNB-UE-S1AP-ID"]; !ok {
			res.IEs["eNB-UE-S1AP-ID"] = fmt.Sprintf("%06x", msg.ENBUES1APID)
		}
	}
	return res
}

// messageS1APIDs resolves the per-connection IDs, preferring the IEs
// (which cover the combined UE-S1AP-IDs form) over the envelope fields.
func messageS1APIDs(msg *core.CanonicalMessage, res s1ap.ParseResult) (mmeID, enbID uint32) {
	mme, enb, hasMME, hasENB := s1ap.ExtractS1APIDs(res)
	if hasMME {
		mmeID = mme
	} else if msg.MMEUES1APID != 0 {
		mmeID = uint32(msg.MMEUES1APID)
	}
	if hasENB {
		enbID = enb
	} else if msg.ENBUES1APID != 0 {
		enbID = uint32(msg.ENBUES1APID)
	}
	return mmeID, enbID
}

// findContext scans for a context sharing any identifier with the
// message. Keys are visited in order so repeated calls pick the same
// context when several match.
func (c *Correlator) findContext(imsi, tmsi, imeisv string, mmeID, enbID uint32) (string, *UEContext) {
	keys := make([]string, 0, len(c.contexts))
	for key := range c.contexts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		ctx := c.contexts[key]
		switch {
		case imsi != "" && ctx.IMSI == imsi:
		case tmsi != "" && ctx.TMSI == tmsi:
		case mmeID != 0 && ctx.MMEUES1APID == mmeID:
		case enbID != 0 && ctx.ENBUES1APID == enbID:
		case imeisv != "" && ctx.IMEI == imeisv:
		default:
			continue
		}
		return key, ctx
	}
	return "", nil
}

func (c *Correlator) lookupSubscriber(imsi, tmsi, imeisv string, mmeID, enbID uint32) *SubscriberRecord {
	switch {
	case imsi != "":
		return c.ue.SubscriberByIMSI(imsi)
	case tmsi != "":
		return c.ue.SubscriberByTMSI(tmsi)
	case mmeID != 0:
		return c.ue.SubscriberByMMEID(mmeID)
	case enbID != 0:
		return c.ue.SubscriberByENBID(enbID)
	case imeisv != "":
		return c.ue.SubscriberByIMEISV(imeisv)
	}
	return nil
}

func (c *Correlator) subscriberKey(rec *SubscriberRecord) string {
	switch {
	case rec.IMSI != "":
		return "imsi:" + rec.IMSI
	case rec.TMSI != "":
		return "tmsi:" + rec.TMSI
	case rec.MMEUES1APID != 0:
		return fmt.Sprintf("mme_ue_s1ap_id:%d", rec.MMEUES1APID)
	case rec.ENBUES1APID != 0:
		return fmt.Sprintf("enb_ue_s1ap_id:%d", rec.ENBUES1APID)
	}
	key := fmt.Sprintf("unknown_%d", c.nextUnknownID)
	c.nextUnknownID++
	return key
}

// keyOutranks reports whether a context stored under old should move
// to key. IMSI keys beat everything, TMSI keys beat connection-scoped
// keys, and connection-scoped keys only replace unknown ones.
func keyOutranks(key, old string) bool {
	switch {
	case strings.HasPrefix(key, "imsi:"):
		return !strings.HasPrefix(old, "imsi:")
	case strings.HasPrefix(key, "tmsi:"):
		return !strings.HasPrefix(old, "imsi:") && !strings.HasPrefix(old, "tmsi:")
	case strings.HasPrefix(key, "mme_ue_s1ap_id:"), strings.HasPrefix(key, "enb_ue_s1ap_id:"):
		return strings.HasPrefix(old, "unknown_")
	}
	return false
}

// updateContextFromSubscriber merges the subscriber record and the
// message into the context. On UEContextReleaseComplete the
// per-connection IDs are released last, after all other updates.
func (c *Correlator) updateContextFromSubscriber(ctx *UEContext, rec *SubscriberRecord, msg *core.CanonicalMessage) {
	if rec.IMSI != "" {
		ctx.IMSI = rec.IMSI
	}
	if rec.TMSI != "" {
		ctx.TMSI = rec.TMSI
	}
	if rec.MMEUES1APID != 0 {
		ctx.MMEUES1APID = rec.MMEUES1APID
	}
	if rec.ENBUES1APID != 0 {
		ctx.ENBUES1APID = rec.ENBUES1APID
	}
	if rec.IMEISV != "" {
		ctx.IMEI = rec.IMEISV
	}

	if len(msg.ECGI) > 0 {
		ctx.ECGI = msg.ECGI
	}
	if len(msg.TargetECGI) > 0 {
		ctx.TargetECGI = msg.TargetECGI
	}
	if msg.GUTI != "" {
		ctx.GUTI = msg.GUTI
	}
	if msg.MMEID != "" {
		ctx.MMEID = msg.MMEID
	}
	if msg.ENBID != "" {
		ctx.ENBID = msg.ENBID
	}
	if msg.MsgType != "" {
		ctx.LastProcedure = msg.MsgType
	}

	ctx.LastSeen = time.Now()
	ctx.updateCompositeKeys()

	if msg.MsgType == "UEContextReleaseComplete" {
		if ctx.MMEUES1APID != 0 {
			c.ue.RemoveMMEAssociation(ctx.MMEUES1APID)
			ctx.MMEUES1APID = 0
		}
		if ctx.ENBUES1APID != 0 {
			c.ue.RemoveENBAssociation(ctx.ENBUES1APID)
			ctx.ENBUES1APID = 0
		}
	}
}

// DumpUERecords writes a human-readable dump of all contexts and the
// underlying subscriber records.
func (c *Correlator) DumpUERecords(w io.Writer) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fmt.Fprintf(w, "\n=== UE Records Dump ===\n")
	fmt.Fprintf(w, "Total UE contexts: %d\n\n", len(c.contexts))

	keys := make([]string, 0, len(c.contexts))
	for key := range c.contexts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	now := time.Now()
	for _, key := range keys {
		ctx := c.contexts[key]
		fmt.Fprintf(w, "Subscriber Key: %s\n", key)
		if ctx.IMSI != "" {
			fmt.Fprintf(w, "  IMSI: %s\n", ctx.IMSI)
		}
		if ctx.GUTI != "" {
			fmt.Fprintf(w, "  GUTI: %s\n", ctx.GUTI)
		}
		if ctx.TMSI != "" {
			fmt.Fprintf(w, "  TMSI: %s\n", ctx.TMSI)
		}
		if ctx.IMEI != "" {
			fmt.Fprintf(w, "  IMEI: %s\n", ctx.IMEI)
		}
		if ctx.MMEUES1APID != 0 {
			fmt.Fprintf(w, "  MME-UE-S1AP-ID: %d\n", ctx.MMEUES1APID)
		}
		if ctx.ENBUES1APID != 0 {
			fmt.Fprintf(w, "  eNB-UE-S1AP-ID: %d\n", ctx.ENBUES1APID)
		}
		if ctx.MMEID != "" {
			fmt.Fprintf(w, "  MME ID: %s\n", ctx.MMEID)
		}
		if ctx.ENBID != "" {
			fmt.Fprintf(w, "  eNB ID: %s\n", ctx.ENBID)
		}
		if ctx.MMEGroupID != "" {
			fmt.Fprintf(w, "  MME Group ID: %s\n", ctx.MMEGroupID)
		}
		if ctx.MMECode != "" {
			fmt.Fprintf(w, "  MME Code: %s\n", ctx.MMECode)
		}
		if len(ctx.ECGI) > 0 {
			fmt.Fprintf(w, "  ECGI: %s\n", hex.EncodeToString(ctx.ECGI))
		}
		if len(ctx.SourceECGI) > 0 {
			fmt.Fprintf(w, "  Source ECGI: %s\n", hex.EncodeToString(ctx.SourceECGI))
		}
		if len(ctx.TargetECGI) > 0 {
			fmt.Fprintf(w, "  Target ECGI: %s\n", hex.EncodeToString(ctx.TargetECGI))
		}
		if ctx.LastProcedure != "" {
			fmt.Fprintf(w, "  Last Procedure: %s\n", ctx.LastProcedure)
		}
		fmt.Fprintf(w, "  Last Seen: %d seconds ago\n", int(now.Sub(ctx.LastSeen).Seconds()))
		if ctx.HandoverInProgress {
			fmt.Fprintf(w, "  Handover In Progress: true\n")
			fmt.Fprintf(w, "  Handover Started: %d seconds ago\n", int(now.Sub(ctx.HandoverStart).Seconds()))
		}
		fmt.Fprintln(w)
	}

	subscribers := c.ue.AllSubscribers()
	fmt.Fprintf(w, "\n=== Subscriber Records ===\n")
	fmt.Fprintf(w, "Total subscribers: %d\n\n", len(subscribers))

	for _, rec := range subscribers {
		fmt.Fprintf(w, "Subscriber ID: %d\n", rec.ID)
		if rec.IMSI != "" {
			fmt.Fprintf(w, "  IMSI: %s\n", rec.IMSI)
		}
		if rec.TMSI != "" {
			fmt.Fprintf(w, "  TMSI: %s\n", rec.TMSI)
		}
		if rec.IMEISV != "" {
			fmt.Fprintf(w, "  IMEISV: %s\n", rec.IMEISV)
		}
		if rec.MMEUES1APID != 0 {
			fmt.Fprintf(w, "  MME-UE-S1AP-ID: %d\n", rec.MMEUES1APID)
		}
		if rec.ENBUES1APID != 0 {
			fmt.Fprintf(w, "  eNB-UE-S1AP-ID: %d\n", rec.ENBUES1APID)
		}
		if len(rec.TEIDs) > 0 {
			teids := rec.TEIDList()
			fmt.Fprintf(w, "  TEIDs: ")
			for i, teid := range teids {
				if i > 0 {
					fmt.Fprintf(w, ", ")
				}
				fmt.Fprintf(w, "0x%x", teid)
			}
			fmt.Fprintln(w)
		}
		if !rec.FirstSeen.IsZero() {
			fmt.Fprintf(w, "  First Seen: %s\n", rec.FirstSeen.Format("2006-01-02 15:04:05"))
		}
		if !rec.LastSeen.IsZero() {
			fmt.Fprintf(w, "  Last Seen: %s\n", rec.LastSeen.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "=== End UE Records Dump ===\n")
}
