package server

import (
	"fmt"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const (
	leafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	leafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
)

// MapPage renders the travel map with its year dropdown. options is the
// dropdown content, "All" first.
func MapPage(m MapOptions, options []string) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Head(
				Meta(Charset("UTF-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text("Travel Map")),
				Link(Rel("stylesheet"), Href(leafletCSS)),
				Script(Src(leafletJS)),
				StyleEl(g.Raw(`
					html, body { margin: 0; height: 100%; font-family: sans-serif; }
					#map { position: absolute; inset: 0; }
					#filterBox { position: absolute; top: 10px; right: 10px; z-index: 1000;
						background: white; padding: 6px 10px; border-radius: 4px;
						box-shadow: 0 1px 4px rgba(0,0,0,.3); }
				`)),
			),
			Body(
				Div(ID("map")),
				Div(ID("filterBox"),
					Label(For("yearFilter"), g.Text("Year: ")),
					Select(ID("yearFilter"),
						g.Map(options, func(o string) g.Node {
							return Option(Value(o), g.Text(o))
						}),
					),
				),
				Script(g.Raw(mapScript(m))),
			),
		),
	})
}

func mapScript(m MapOptions) string {
	return fmt.Sprintf(`
const map = L.map('map').setView([%g, %g], %d);
L.tileLayer(%q, { attribution: '&copy; OpenStreetMap contributors' }).addTo(map);
const layers = {};

const select = document.getElementById('yearFilter');

fetch('/api/catalog').then(r => r.json()).then(fc => {
	L.geoJSON(fc, {
		style: f => f.properties.style || {},
		onEachFeature: (f, layer) => {
			layer.bindPopup(f.properties.popup);
			layers[f.properties.key] = layer;
		}
	});
	select.addEventListener('change', () => applyYear(select.value));
	applyYear(select.value);
});

function applyYear(year) {
	fetch('/api/visible?year=' + encodeURIComponent(year)).then(r => r.json()).then(res => {
		// A newer selection was made while this one was in flight.
		if (select.value !== year) return;
		const shown = new Set(res.visible);
		for (const [key, layer] of Object.entries(layers)) {
			if (shown.has(key)) {
				if (!map.hasLayer(layer)) layer.addTo(map);
			} else if (map.hasLayer(layer)) {
				map.removeLayer(layer);
			}
		}
	});
}
`, m.Center[0], m.Center[1], m.Zoom, m.Tiles)
}
