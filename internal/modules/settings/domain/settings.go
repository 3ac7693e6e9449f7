package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type Notifications struct {
	EmailNotifications bool `json:"emailNotifications"`
	PushNotifications  bool `json:"pushNotifications"`
	AnalysisComplete   bool `json:"analysisComplete"`
	AnomalyDetected    bool `json:"anomalyDetected"`
	SystemUpdates      bool `json:"systemUpdates"`
}

type Privacy struct {
	DataRetention  string `json:"dataRetention"`
	AnonymizeData  bool   `json:"anonymizeData"`
	ShareAnalytics bool   `json:"shareAnalytics"`
	CookiesEnabled bool   `json:"cookiesEnabled"`
}

type Processing struct {
	MaxConcurrentAnalyses string `json:"maxConcurrentAnalyses"`
	AutoProcessing        bool   `json:"autoProcessing"`
	QualityPreset         string `json:"qualityPreset"`
	CompressionEnabled    bool   `json:"compressionEnabled"`
}

type Display struct {
	Theme      string `json:"theme"`
	Language   string `json:"language"`
	Timezone   string `json:"timezone"`
	DateFormat string `json:"dateFormat"`
}

// Settings is replaced as a whole on every save.
type Settings struct {
	Notifications Notifications `json:"notifications"`
	Privacy       Privacy       `json:"privacy"`
	Processing    Processing    `json:"processing"`
	Display       Display       `json:"display"`
}

func Defaults() Settings {
	return Settings{
		Notifications: Notifications{
			EmailNotifications: true,
			AnalysisComplete:   true,
			AnomalyDetected:    true,
		},
		Privacy: Privacy{
			DataRetention:  "30",
			AnonymizeData:  true,
			CookiesEnabled: true,
		},
		Processing: Processing{
			MaxConcurrentAnalyses: "3",
			QualityPreset:         "high",
			CompressionEnabled:    true,
		},
		Display: Display{
			Theme:      "auto",
			Language:   "en",
			Timezone:   "UTC",
			DateFormat: "MM/DD/YYYY",
		},
	}
}

// Set assigns value to the field at "section.field" (JSON names). Boolean
// fields accept anything strconv.ParseBool does.
func (s Settings) Set(path, value string) (Settings, error) {
	section, field, ok := strings.Cut(path, ".")
	if !ok || !plainName(section) || !plainName(field) {
		return s, fmt.Errorf("setting path %q must look like section.field", path)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return s, fmt.Errorf("encode settings: %w", err)
	}
	if !gjson.GetBytes(raw, section).IsObject() {
		return s, fmt.Errorf("unknown settings section %q", section)
	}
	current := gjson.GetBytes(raw, path)
	if !current.Exists() {
		return s, fmt.Errorf("unknown setting %q", path)
	}
	var next any = value
	if current.IsBool() {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, fmt.Errorf("setting %s expects true or false", path)
		}
		next = b
	}
	raw, err = sjson.SetBytes(raw, path, next)
	if err != nil {
		return s, fmt.Errorf("set %s: %w", path, err)
	}
	updated := Settings{}
	if err := json.Unmarshal(raw, &updated); err != nil {
		return s, fmt.Errorf("decode settings: %w", err)
	}
	return updated, nil
}

// Flatten lists every setting as "section.field" with its rendered value,
// sorted by path.
func (s Settings) Flatten() [][2]string {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	out := [][2]string{}
	gjson.ParseBytes(raw).ForEach(func(section, group gjson.Result) bool {
		group.ForEach(func(field, v gjson.Result) bool {
			out = append(out, [2]string{section.String() + "." + field.String(), v.String()})
			return true
		})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// plainName rejects empty names and gjson path syntax such as wildcards.
func plainName(name string) bool {
	return name != "" && strings.IndexFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) < 0
}
