package terncy

// AttrValue is a single attribute sample. Times is only populated on
// keyPressed payloads.
type AttrValue struct {
	Attr  string `json:"attr"`
	Value int64  `json:"value"`
	Times int    `json:"times,omitempty"`
}

// SceneAction is one step of a scene. The engine only cares whether a scene
// has any, so the value is carried opaquely.
type SceneAction struct {
	ID    string `json:"id"`
	Attr  string `json:"attr"`
	Value int64  `json:"value"`
}

// EntityData is the merged shape of every entity payload the hub sends.
// Devices populate Services, scenes populate Actions and On, rooms only
// carry ID and Name. Optional fields are pointers so absence survives
// decoding.
type EntityData struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Room string `json:"room,omitempty"`

	Model     string `json:"model,omitempty"`
	Version   *int   `json:"version,omitempty"`
	HWVersion *int   `json:"hwVersion,omitempty"`
	OTA       *int   `json:"ota,omitempty"`

	Profile    *int        `json:"profile,omitempty"`
	Online     *bool       `json:"online,omitempty"`
	Attributes []AttrValue `json:"attributes,omitempty"`

	Services []EntityData `json:"services,omitempty"`

	On      *int          `json:"on,omitempty"`
	Actions []SceneAction `json:"actions,omitempty"`
}

// EntitiesResponse is the reply to GetEntities. Rsp is nil when the hub
// answered without a result body.
type EntitiesResponse struct {
	ReqID int          `json:"reqId"`
	Rsp   *EntitiesRsp `json:"rsp"`
}

type EntitiesRsp struct {
	Entities []EntityData `json:"entities"`
}

// GetAttrValue scans attrs for key, returning the first value found.
func GetAttrValue(attrs []AttrValue, key string) (int64, bool) {
	for _, av := range attrs {
		if av.Attr == key {
			return av.Value, true
		}
	}

	return 0, false
}
