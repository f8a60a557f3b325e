package handlers

import (
	"fmt"
	"net/url"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

type appResponse struct {
	Label         string `json:"label"`
	Package       string `json:"package"`
	Class         string `json:"class"`
	ProfileSerial int64  `json:"profile_serial"`
	IconURL       string `json:"icon_url,omitempty"`
}

type catalogResponse struct {
	Apps      []appResponse `json:"apps"`
	Favorites []appResponse `json:"favorites"`
}

// IconPath is where the normalized icon of id is served.
func IconPath(id domain.ActivityIdentitySer) string {
	return fmt.Sprintf("/api/apps/%s/%s/%d/icon.png",
		url.PathEscape(id.Package), url.PathEscape(id.Class), id.ProfileSerial)
}

func toAppResponse(app domain.AppRecord) appResponse {
	out := appResponse{
		Label:         app.Label,
		Package:       app.Serial.Package,
		Class:         app.Serial.Class,
		ProfileSerial: int64(app.Serial.ProfileSerial),
	}
	if app.Icon != nil {
		out.IconURL = IconPath(app.Serial)
	}
	return out
}

func toAppResponses(apps []domain.AppRecord) []appResponse {
	out := make([]appResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toAppResponse(app))
	}
	return out
}

func toCatalogResponse(cat domain.Catalog) catalogResponse {
	return catalogResponse{
		Apps:      toAppResponses(cat.AllApps),
		Favorites: toAppResponses(cat.Favorites),
	}
}
