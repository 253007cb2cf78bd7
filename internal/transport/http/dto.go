package http

import (
	"math"

	"bookpulse/internal/analytics"
)

// SimilarityMatrixResponse is the wire form of the taste matrix. Cells are
// pointers so a NaN (no rating overlap) serializes as null instead of
// breaking the JSON encoder.
type SimilarityMatrixResponse struct {
	Members []string     `json:"members"`
	Values  [][]*float64 `json:"values"`
}

func newSimilarityMatrixResponse(matrix *analytics.SimilarityMatrix) SimilarityMatrixResponse {
	response := SimilarityMatrixResponse{
		Members: matrix.Members,
		Values:  make([][]*float64, len(matrix.Values)),
	}
	for i, row := range matrix.Values {
		cells := make([]*float64, len(row))
		for j, value := range row {
			if !math.IsNaN(value) {
				v := value
				cells[j] = &v
			}
		}
		response.Values[i] = cells
	}
	return response
}
