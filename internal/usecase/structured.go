package usecase

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const productType = "Product"

// structuredProduct holds the fields read from a schema.org Product entity
type structuredProduct struct {
	Name    string
	Price   string
	InStock bool
	Seller  string
	Image   string
}

// findStructuredProduct scans the ld+json blocks in document order and returns
// the first Product entity found. Blocks that fail to parse are skipped.
func findStructuredProduct(doc *goquery.Document) (*structuredProduct, bool) {
	var found *structuredProduct
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		entity, ok := productEntity([]byte(s.Text()))
		if !ok {
			return true
		}
		found = readStructuredProduct(entity)
		return false
	})
	return found, found != nil
}

// productEntity decodes a block holding an object or an array of objects and
// returns the first entity whose @type is Product.
func productEntity(block []byte) (map[string]interface{}, bool) {
	block = bytes.TrimSpace(block)
	if len(block) == 0 {
		return nil, false
	}

	decoder := json.NewDecoder(bytes.NewReader(block))
	decoder.UseNumber()

	var payload interface{}
	if err := decoder.Decode(&payload); err != nil {
		return nil, false
	}

	switch v := payload.(type) {
	case map[string]interface{}:
		if isProductType(v["@type"]) {
			return v, true
		}
	case []interface{}:
		for _, entry := range v {
			if obj, ok := entry.(map[string]interface{}); ok && isProductType(obj["@type"]) {
				return obj, true
			}
		}
	}
	return nil, false
}

func isProductType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return v == productType
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == productType {
				return true
			}
		}
	}
	return false
}

func readStructuredProduct(entity map[string]interface{}) *structuredProduct {
	product := &structuredProduct{
		Name:  scalarString(entity["name"]),
		Image: imageString(entity["image"]),
	}

	offer := firstObject(entity["offers"])
	if offer == nil {
		return product
	}

	product.Price = scalarString(offer["price"])
	product.InStock = strings.Contains(scalarString(offer["availability"]), "InStock")

	if seller := firstObject(offer["seller"]); seller != nil {
		product.Seller = scalarString(seller["name"])
	}

	return product
}

// firstObject returns v when it is an object, or its first object entry when it is an array.
func firstObject(v interface{}) map[string]interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return t
	case []interface{}:
		for _, entry := range t {
			if obj, ok := entry.(map[string]interface{}); ok {
				return obj
			}
		}
	}
	return nil
}

// scalarString renders strings and numbers verbatim; anything else is "".
func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	}
	return ""
}

func imageString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []interface{}:
		for _, entry := range t {
			if s := imageString(entry); s != "" {
				return s
			}
		}
	case map[string]interface{}:
		return scalarString(t["url"])
	}
	return ""
}
