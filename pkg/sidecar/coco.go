package sidecar

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kplabel/kplabel/pkg/geometry"
)

// COCO keypoint interchange. One image, one annotation, keypoints flattened
// as (x, y, visibility) triples with visibility 2 ("labeled and visible").

type cocoImage struct {
	ID       int    `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type cocoAnnotation struct {
	ID           int   `json:"id"`
	ImageID      int   `json:"image_id"`
	CategoryID   int   `json:"category_id"`
	Keypoints    []int `json:"keypoints"`
	NumKeypoints int   `json:"num_keypoints"`
}

type cocoCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type cocoFile struct {
	Images      []cocoImage      `json:"images"`
	Annotations []cocoAnnotation `json:"annotations"`
	Categories  []cocoCategory   `json:"categories"`
}

// EncodeCOCO renders the document's keypoints as a COCO keypoint file for
// the named image.
func (d *Document) EncodeCOCO(fileName string, width, height int) ([]byte, error) {
	keypoints := make([]int, 0, len(d.Coords)*3)
	for _, p := range d.Coords {
		keypoints = append(keypoints, p.X, p.Y, 2)
	}
	out := cocoFile{
		Images: []cocoImage{{ID: 1, FileName: fileName, Width: width, Height: height}},
		Annotations: []cocoAnnotation{{
			ID:           1,
			ImageID:      1,
			CategoryID:   1,
			Keypoints:    keypoints,
			NumKeypoints: len(d.Coords),
		}},
		Categories: []cocoCategory{{ID: 1, Name: "keypoint"}},
	}
	return json.MarshalIndent(out, "", "  ")
}

// ExportCOCO writes the COCO rendering to a file.
func (d *Document) ExportCOCO(path, fileName string, width, height int) error {
	data, err := d.EncodeCOCO(fileName, width, height)
	if err != nil {
		return fmt.Errorf("encode coco: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write coco %s: %w", path, err)
	}
	return nil
}

// ImportCOCO extracts keypoints from a COCO keypoint file. Annotations are
// concatenated in file order; triples with visibility 0 ("not labeled") are
// skipped.
func ImportCOCO(data []byte) ([]geometry.Point, error) {
	var in cocoFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode coco: %w", err)
	}

	var points []geometry.Point
	for _, ann := range in.Annotations {
		if len(ann.Keypoints)%3 != 0 {
			return nil, fmt.Errorf("annotation %d: keypoint list length %d is not a multiple of 3", ann.ID, len(ann.Keypoints))
		}
		for i := 0; i < len(ann.Keypoints); i += 3 {
			if ann.Keypoints[i+2] == 0 {
				continue
			}
			points = append(points, geometry.NewPoint(ann.Keypoints[i], ann.Keypoints[i+1]))
		}
	}
	return points, nil
}
