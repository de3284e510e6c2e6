package zonedata

import (
	"fmt"
	"io/fs"

	"github.com/lafriks/go-tiled"
)

// Load parses a TMX zone file. One tile maps to one world unit on the x/z
// plane regardless of the tile pixel size; the TMX y axis becomes z. It takes
// an fs.FS so callers can pass os.DirFS or an embedded filesystem.
//
// Expected structure: a tile layer named "obstacles" whose non-empty cells are
// impassable, and an object group "Spawn" with at least one point object.
func Load(fsys fs.FS, tmxPath string) (*Zone, error) {
	zoneMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	zone := &Zone{
		Name: tmxPath,
		Bounds: Rect{
			MaxX: float64(zoneMap.Width),
			MaxZ: float64(zoneMap.Height),
		},
	}

	for _, layer := range zoneMap.Layers {
		if layer.Name != "obstacles" {
			continue
		}
		for y := 0; y < zoneMap.Height; y++ {
			for x := 0; x < zoneMap.Width; x++ {
				tile := layer.Tiles[y*zoneMap.Width+x]
				if tile.IsNil() {
					continue
				}
				zone.Obstacles = append(zone.Obstacles, Obstacle{
					X: float64(x),
					Z: float64(y),
					W: 1,
					D: 1,
				})
			}
		}
		break
	}

	zone.SpawnX = zone.Bounds.Width() / 2
	zone.SpawnZ = zone.Bounds.Depth() / 2
	for _, og := range zoneMap.ObjectGroups {
		if og.Name != "Spawn" {
			continue
		}
		if len(og.Objects) > 0 {
			// Object coordinates are in pixels; scale back to tile units.
			o := og.Objects[0]
			zone.SpawnX = o.X / float64(zoneMap.TileWidth)
			zone.SpawnZ = o.Y / float64(zoneMap.TileHeight)
		}
		break
	}

	return zone, nil
}
