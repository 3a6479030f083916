package microsoft

// Wire types of the Microsoft Translator v3 API. Only the fields the
// adapter maps are declared.

type lookupEntry struct {
	NormalizedSource string              `json:"normalizedSource"`
	Translations     []lookupTranslation `json:"translations"`
}

type lookupTranslation struct {
	NormalizedTarget string `json:"normalizedTarget"`
}

type examplesEntry struct {
	NormalizedSource string        `json:"normalizedSource"`
	NormalizedTarget string        `json:"normalizedTarget"`
	Examples         []exampleItem `json:"examples"`
}

type exampleItem struct {
	SourcePrefix string `json:"sourcePrefix"`
	SourceTerm   string `json:"sourceTerm"`
	SourceSuffix string `json:"sourceSuffix"`
	TargetPrefix string `json:"targetPrefix"`
	TargetTerm   string `json:"targetTerm"`
	TargetSuffix string `json:"targetSuffix"`
}

type translateEntry struct {
	Translations []translatedItem `json:"translations"`
}

type translatedItem struct {
	Text string `json:"text"`
	To   string `json:"to"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
