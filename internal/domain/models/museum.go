// internal/domain/models/museum.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Museum is a venue that hosts exhibitions.
type Museum struct {
	ID                 primitive.ObjectID `bson:"_id"`
	Name               string             `bson:"name"`
	NameCI             string             `bson:"name_ci"`
	Address            string             `bson:"address"`
	Access             string             `bson:"access"`
	OpeningInformation string             `bson:"opening_information,omitempty"` // sanitized HTML
	VenueType          string             `bson:"venue_type"`
	Area               string             `bson:"area"`
	Region             string             `bson:"region"`
	OfficialURL        string             `bson:"official_url"`
	ScrapeURL          string             `bson:"scrape_url"`
	ScrapeEnabled      bool               `bson:"scrape_enabled"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

// VenueTypes are the accepted venue_type values.
var VenueTypes = []string{
	"美術館",
	"博物館",
	"ギャラリー",
	"イベントスペース",
	"商業施設",
}

// Areas are the accepted area values for Tokyo venues.
var Areas = []string{
	"上野",
	"浅草・押上（スカイツリー）",
	"銀座・丸の内",
	"京橋・日本橋・八重洲",
	"表参道・青山・外苑前",
	"渋谷",
	"恵比寿・目黒・白金",
	"六本木・乃木坂・麻布台",
	"新宿・初台・四ツ谷・早稲田",
	"池袋・目白・護国寺",
	"水道橋・後楽園",
	"品川・天王洲アイル",
	"清澄白河・両国・蔵前",
	"汐留・新橋・虎ノ門",
	"お台場・豊洲・有明",
	"中野・高円寺・吉祥寺",
	"三軒茶屋・二子玉川・世田谷",
	"武蔵野・三鷹・調布",
	"小金井・府中・多摩",
	"立川・八王子・多摩センター",
}

// Regions are the accepted region values.
var Regions = []string{"東京"}

// Contains reports whether v is one of list.
func Contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
