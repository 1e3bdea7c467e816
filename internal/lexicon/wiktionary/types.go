package wiktionary

// kaikkiEntry mirrors the subset of a Kaikki JSONL record the extractor reads.
type kaikkiEntry struct {
	Word   string        `json:"word"`
	POS    string        `json:"pos"`
	Forms  []kaikkiForm  `json:"forms"`
	Senses []kaikkiSense `json:"senses"`
	Sounds []kaikkiSound `json:"sounds"`
}

type kaikkiForm struct {
	Form string   `json:"form"`
	Tags []string `json:"tags"`
}

type kaikkiSense struct {
	Glosses  []string        `json:"glosses"`
	Tags     []string        `json:"tags"`
	Examples []kaikkiExample `json:"examples"`
}

type kaikkiExample struct {
	Text string `json:"text"`
}

type kaikkiSound struct {
	IPA    string   `json:"ipa"`
	ZhPron string   `json:"zh-pron"`
	Tags   []string `json:"tags"`
}

// Stats holds extraction counters.
type Stats struct {
	TotalLines      int
	MalformedLines  int
	MissingFields   int
	RejectedRecords int
	AcceptedRecords int
	DroppedSenses   int
	DroppedOfSenses int
	Entries         int
	EnabledEntries  int
	DemotedEntries  int
	PrunedForms     int
}
