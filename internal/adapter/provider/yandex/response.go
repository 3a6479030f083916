package yandex

// Wire types of the Yandex Dictionary API (dicservice.json/lookup).

type lookupResponse struct {
	Def []definition `json:"def"`
}

type definition struct {
	Text string             `json:"text"`
	Tr   []translationEntry `json:"tr"`
}

type translationEntry struct {
	Text string         `json:"text"`
	Ex   []exampleEntry `json:"ex"`
}

type exampleEntry struct {
	Text string        `json:"text"`
	Tr   []exampleText `json:"tr"`
}

type exampleText struct {
	Text string `json:"text"`
}
