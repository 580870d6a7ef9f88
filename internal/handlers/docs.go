package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the Pahbar API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	hourProps := map[string]interface{}{"date": map[string]string{"type": "string", "example": "1401/01/23"}}
	for _, h := range []string{"H0", "H12", "H23"} {
		hourProps[h] = map[string]string{"type": "number"}
	}

	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Pahbar Load Reporting API",
			"description": "Hourly electricity load reporting per distribution company, with local-calendar dates and Excel bulk upload",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "Pahbar Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"components": map[string]interface{}{
			"securitySchemes": map[string]interface{}{
				"bearerAuth": map[string]string{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"security": []map[string]interface{}{
			{"bearerAuth": []string{}},
		},
		"paths": map[string]interface{}{
			"/api/loads/excel": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Upload hourly loads workbook",
					"description": "Bulk upload an xlsx workbook with a date column (local calendar, e.g. 1401/01/23) and hourly columns H0..H23. The whole batch is written transactionally; a single bad cell rejects the upload.",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"multipart/form-data": map[string]interface{}{
								"schema": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"file": map[string]string{"type": "string", "format": "binary"},
									},
								},
							},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Batch written, with row and record counts"},
						"400": map[string]interface{}{"description": "Malformed workbook or invalid cell"},
						"401": map[string]interface{}{"description": "Missing or invalid token"},
						"403": map[string]interface{}{"description": "No disco assigned to user"},
					},
				},
			},
			"/api/loads": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get hourly loads by day",
					"description": "Retrieve per-day hourly loads for the local days containing the given timestamps",
					"parameters": []map[string]interface{}{
						{
							"name":        "dates",
							"in":          "query",
							"description": "Comma-separated unix timestamps, one per requested day",
							"required":    true,
							"schema":      map[string]string{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "One row per local day with slots H0..H23",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "array",
										"items": map[string]interface{}{
											"type":       "object",
											"properties": hourProps,
										},
									},
								},
							},
						},
						"400": map[string]interface{}{"description": "Malformed dates parameter"},
					},
				},
			},
			"/api/loads/next-dates": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Suggest the next upload window",
					"description": "Date-picker bounds and defaults for the disco's next upload, derived from its recorded range",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Window with from/to start, default and end dates"},
						"204": map[string]interface{}{"description": "Disco has no records yet"},
					},
				},
			},
			"/api/loads/last-date": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Last recorded date",
					"description": "Local date of the disco's most recent record",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Last date in local calendar"},
						"204": map[string]interface{}{"description": "Disco has no records yet"},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Service and database health",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Service is healthy"},
						"503": map[string]interface{}{"description": "Database unreachable"},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
