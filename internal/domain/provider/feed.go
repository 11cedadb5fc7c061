package provider

// EventKind tags the three shapes a feed event can take. Dispatch order
// matters: an amendment marker wins over a cancellation marker, which wins
// over a bare mandate snapshot.
type EventKind int

const (
	EventKindUnknown EventKind = iota
	EventKindAmendment
	EventKindCancellation
	EventKindSnapshot
)

func (k EventKind) String() string {
	switch k {
	case EventKindAmendment:
		return "amendment"
	case EventKindCancellation:
		return "cancellation"
	case EventKindSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// FeedResponse is the body of GET /creditor/mandate.
type FeedResponse struct {
	Messages []FeedEvent `json:"Messages"`
}

// FeedEvent is one change notification from the mandate feed, in the
// pain.009/pain.010-flavoured field naming the service uses on the wire.
type FeedEvent struct {
	// AmdmntRsn is set on amendment events.
	AmdmntRsn *Reason `json:"AmdmntRsn,omitempty"`
	// CxlRsn is set on cancellation events.
	CxlRsn *Reason `json:"CxlRsn,omitempty"`
	// OrgnlMndtID identifies the mandate an amendment or cancellation
	// applies to.
	OrgnlMndtID string `json:"OrgnlMndtId,omitempty"`
	// Mndt is the mandate snapshot. Present on amendments and snapshots,
	// absent on cancellations.
	Mndt *MandateDocument `json:"Mndt,omitempty"`
	// EvtTime is when the event happened, as reported by the service.
	EvtTime string `json:"EvtTime,omitempty"`
}

// Kind classifies the event by field presence, amendment first.
func (e *FeedEvent) Kind() EventKind {
	switch {
	case e.AmdmntRsn != nil:
		return EventKindAmendment
	case e.CxlRsn != nil:
		return EventKindCancellation
	case e.Mndt != nil:
		return EventKindSnapshot
	default:
		return EventKindUnknown
	}
}

// Reason is an amendment or cancellation reason block.
type Reason struct {
	Rsn string `json:"Rsn"`
}

// MandateDocument is the mandate block inside a feed event.
type MandateDocument struct {
	MndtID string `json:"MndtId"`
	// DbtrAcct is the debtor's account number (IBAN).
	DbtrAcct string  `json:"DbtrAcct,omitempty"`
	DbtrAgt  *Agent  `json:"DbtrAgt,omitempty"`
	Dbtr     *Party  `json:"Dbtr,omitempty"`
	Cdtr     *Party  `json:"Cdtr,omitempty"`
	// SplmtryData carries key/value pairs such as the signing language.
	SplmtryData []KeyValue `json:"SplmtryData,omitempty"`
}

// BIC returns the debtor agent's BIC, empty when any block is missing.
func (m *MandateDocument) BIC() string {
	if m.DbtrAgt == nil || m.DbtrAgt.FinInstnID == nil {
		return ""
	}
	return m.DbtrAgt.FinInstnID.BICFI
}

// Language returns the ISO code of the "Language" supplementary pair, empty
// when absent.
func (m *MandateDocument) Language() string {
	for _, kv := range m.SplmtryData {
		if kv.Key == "Language" {
			return kv.Value
		}
	}
	return ""
}

// Agent is a financial institution block.
type Agent struct {
	FinInstnID *FinInstitution `json:"FinInstnId,omitempty"`
}

// FinInstitution identifies a bank.
type FinInstitution struct {
	BICFI string `json:"BICFI,omitempty"`
}

// Party is a debtor or creditor block.
type Party struct {
	Nm       string          `json:"Nm,omitempty"`
	PstlAdr  *PostalAddress  `json:"PstlAdr,omitempty"`
	CtctDtls *ContactDetails `json:"CtctDtls,omitempty"`
}

// ContactReference returns the "other" contact identifier, the key local
// customers are matched by first.
func (p *Party) ContactReference() string {
	if p == nil || p.CtctDtls == nil {
		return ""
	}
	return p.CtctDtls.Othr
}

// Email returns the contact email, empty when any block is missing.
func (p *Party) Email() string {
	if p == nil || p.CtctDtls == nil {
		return ""
	}
	return p.CtctDtls.EmailAdr
}

// PostalAddress is a party's address block.
type PostalAddress struct {
	AdrLine string `json:"AdrLine,omitempty"`
	PstCd   string `json:"PstCd,omitempty"`
	TwnNm   string `json:"TwnNm,omitempty"`
	Ctry    string `json:"Ctry,omitempty"`
}

// ContactDetails is a party's contact block.
type ContactDetails struct {
	EmailAdr string `json:"EmailAdr,omitempty"`
	Othr     string `json:"Othr,omitempty"`
}

// KeyValue is one supplementary data pair.
type KeyValue struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}
