package correlate

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/melrosenetworks/S1-SEE/internal/core"
)

// UEContext is the live view of one UE connection: identifiers, the
// serving cell, handover state and the cached keys the rule engine
// matches on. Zero values mean unknown.
type UEContext struct {
	MMEUES1APID uint32
	ENBUES1APID uint32

	IMSI string
	GUTI string
	TMSI string
	IMEI string

	ENBID      string
	MMEID      string
	MMEGroupID string
	MMECode    string

	ECGI       []byte
	TargetECGI []byte
	SourceECGI []byte

	LastProcedure string
	LastSeen      time.Time

	SubscriberKey    string
	MMECompositeKey  string
	ENBCompositeKey  string
	TMSICompositeKey string

	HandoverInProgress bool
	HandoverStart      time.Time
}

// Update folds one message into the context. Identifier fields only
// ever gain values; cell and node fields track the latest sighting.
// Handover procedures move the serving cell to the target cell.
func (c *UEContext) Update(msg *core.CanonicalMessage) {
	if msg.MMEUES1APID != 0 {
		c.MMEUES1APID = uint32(msg.MMEUES1APID)
	}
	if msg.ENBUES1APID != 0 {
		c.ENBUES1APID = uint32(msg.ENBUES1APID)
	}

	if msg.IMSI != "" {
		c.IMSI = msg.IMSI
	}
	if msg.GUTI != "" {
		c.GUTI = msg.GUTI
	}
	if msg.TMSI != "" {
		c.TMSI = msg.TMSI
	}
	if msg.IMEISV != "" {
		c.IMEI = msg.IMEISV
	}

	if msg.ENBID != "" {
		c.ENBID = msg.ENBID
	}
	if msg.MMEID != "" {
		c.MMEID = msg.MMEID
	}
	if msg.MMEGroupID != "" {
		c.MMEGroupID = msg.MMEGroupID
	}
	if msg.MMECode != "" {
		c.MMECode = msg.MMECode
	}

	if len(msg.ECGI) > 0 {
		c.ECGI = msg.ECGI
	}
	if len(msg.TargetECGI) > 0 {
		c.TargetECGI = msg.TargetECGI
	}
	if msg.MsgType != "" {
		c.LastProcedure = msg.MsgType
	}

	c.LastSeen = time.Now()
	c.updateCompositeKeys()

	switch msg.MsgType {
	case "HandoverRequired":
		c.HandoverInProgress = true
		c.HandoverStart = time.Now()
		c.SourceECGI = c.ECGI
		if len(c.TargetECGI) > 0 {
			c.ECGI = c.TargetECGI
		}
	case "HandoverCommand":
		c.HandoverInProgress = true
		if c.HandoverStart.IsZero() {
			c.HandoverStart = time.Now()
		}
		c.SourceECGI = c.ECGI
		if len(c.TargetECGI) > 0 {
			c.ECGI = c.TargetECGI
		}
	case "HandoverNotify":
		if c.HandoverInProgress {
			c.HandoverInProgress = false
			if len(c.TargetECGI) > 0 {
				c.ECGI = c.TargetECGI
			}
		}
	}

	c.SubscriberKey = c.GenerateSubscriberKey()
}

// GenerateSubscriberKey derives the best available key for this
// context. Stable subscriber identities rank above composite network
// identities, which rank above bare per-connection IDs.
func (c *UEContext) GenerateSubscriberKey() string {
	switch {
	case c.IMSI != "":
		return "imsi:" + c.IMSI
	case c.GUTI != "":
		return "guti:" + c.GUTI
	case c.TMSI != "" && len(c.ECGI) > 0:
		return "tmsi:" + c.TMSI + "@" + hex.EncodeToString(c.ECGI)
	case c.MMEID != "" && c.MMEUES1APID != 0:
		return "mme:" + c.MMEID + ":" + strconv.FormatUint(uint64(c.MMEUES1APID), 10)
	case c.ENBID != "" && c.ENBUES1APID != 0:
		return "enb:" + c.ENBID + ":" + strconv.FormatUint(uint64(c.ENBUES1APID), 10)
	case c.IMEI != "":
		return "imei:" + c.IMEI
	case c.MMEUES1APID != 0:
		return "mme:" + strconv.FormatUint(uint64(c.MMEUES1APID), 10)
	case c.ENBUES1APID != 0:
		return "enb:" + strconv.FormatUint(uint64(c.ENBUES1APID), 10)
	}
	return "unknown"
}

// MatchesStableIdentity reports whether both contexts share an IMSI,
// GUTI or IMEI. Per-connection IDs are deliberately excluded: they
// change across eNodeB and MME moves.
func (c *UEContext) MatchesStableIdentity(other *UEContext) bool {
	if c.IMSI != "" && other.IMSI != "" && c.IMSI == other.IMSI {
		return true
	}
	if c.GUTI != "" && other.GUTI != "" && c.GUTI == other.GUTI {
		return true
	}
	if c.IMEI != "" && other.IMEI != "" && c.IMEI == other.IMEI {
		return true
	}
	return false
}

// IsExpired reports whether the context has been idle longer than
// maxInactivity.
func (c *UEContext) IsExpired(maxInactivity time.Duration) bool {
	return time.Since(c.LastSeen) > maxInactivity
}

func (c *UEContext) updateCompositeKeys() {
	if c.MMEID != "" && c.MMEUES1APID != 0 {
		c.MMECompositeKey = fmt.Sprintf("%s:%d", c.MMEID, c.MMEUES1APID)
	} else {
		c.MMECompositeKey = ""
	}

	if c.ENBID != "" && c.ENBUES1APID != 0 {
		c.ENBCompositeKey = fmt.Sprintf("%s:%d", c.ENBID, c.ENBUES1APID)
	} else {
		c.ENBCompositeKey = ""
	}

	if c.TMSI != "" && len(c.ECGI) > 0 {
		c.TMSICompositeKey = c.TMSI + "@" + hex.EncodeToString(c.ECGI)
	} else {
		c.TMSICompositeKey = ""
	}
}
