package wda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mobile-next/wdactl/types"
)

// source trees of busy screens take a while to serialize
const sourceTimeout = 60 * time.Second

// sourceTreeElementRect represents the rect structure from WDA source tree
type sourceTreeElementRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// sourceTreeElement represents an element from WDA source tree
type sourceTreeElement struct {
	Type          string                `json:"type"`
	Label         *string               `json:"label"`
	Name          *string               `json:"name"`
	Value         *string               `json:"value"`
	RawIdentifier *string               `json:"rawIdentifier"`
	IsVisible     string                `json:"isVisible"`
	Rect          sourceTreeElementRect `json:"rect"`
	Children      []sourceTreeElement   `json:"children"`
}

var acceptedTypes = map[string]bool{
	"TextField":   true,
	"Button":      true,
	"Switch":      true,
	"Icon":        true,
	"SearchField": true,
	"StaticText":  true,
	"Image":       true,
}

func isVisible(rect sourceTreeElementRect) bool {
	return rect.X >= 0 && rect.Y >= 0
}

func filterSourceElements(source sourceTreeElement) []types.ScreenElement {
	var output []types.ScreenElement

	if acceptedTypes[source.Type] && source.IsVisible == "1" && isVisible(source.Rect) {
		hasIdentifier := source.Label != nil || source.Name != nil || source.RawIdentifier != nil
		alwaysInclude := source.Type == "TextField" || source.Type == "Button" || source.Type == "Switch" || source.Type == "SearchField"
		if hasIdentifier || alwaysInclude {
			output = append(output, types.ScreenElement{
				Type:       source.Type,
				Label:      source.Label,
				Name:       source.Name,
				Value:      source.Value,
				Identifier: source.RawIdentifier,
				Rect: types.ScreenElementRect{
					X:      source.Rect.X,
					Y:      source.Rect.Y,
					Width:  source.Rect.Width,
					Height: source.Rect.Height,
				},
			})
		}
	}

	for _, child := range source.Children {
		output = append(output, filterSourceElements(child)...)
	}

	return output
}

// GetTreeElements returns the raw UI tree from /source?format=json
func (c *WdaClient) GetTreeElements(ctx context.Context) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, sourceTimeout)
	defer cancel()

	startTime := time.Now()
	resp, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodGet,
		Path:   "source?format=json",
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	var value json.RawMessage
	if err := resp.DecodeValue(&value); err != nil {
		return nil, err
	}

	c.log.Debugf("source took %.2f seconds", time.Since(startTime).Seconds())
	return value, nil
}

// GetSourceElements flattens the UI tree into visible, identifiable elements
func (c *WdaClient) GetSourceElements(ctx context.Context) ([]types.ScreenElement, error) {
	value, err := c.GetTreeElements(ctx)
	if err != nil {
		return nil, err
	}

	var sourceTree sourceTreeElement
	if err := json.Unmarshal(value, &sourceTree); err != nil {
		return nil, fmt.Errorf("failed to parse source tree: %w", err)
	}

	return filterSourceElements(sourceTree), nil
}

type foundElement struct {
	ELEMENT string `json:"ELEMENT"`
	W3C     string `json:"element-6066-11e4-a52e-4f735466cecf"`
}

func (e foundElement) id() string {
	if e.ELEMENT != "" {
		return e.ELEMENT
	}
	return e.W3C
}

// TapDeviceTreeElement clicks the first element whose label matches
func (c *WdaClient) TapDeviceTreeElement(ctx context.Context, label string) error {
	resp, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   c.sessionPath("elements"),
		Body: map[string]interface{}{
			"using": "link text",
			"value": "label=" + label,
		},
		JSON: true,
	})
	if err != nil {
		return fmt.Errorf("failed to find element: %w", err)
	}

	var elements []foundElement
	if err := resp.DecodeValue(&elements); err != nil {
		return err
	}
	if len(elements) == 0 || elements[0].id() == "" {
		return &ElementNotFoundError{Label: label}
	}

	_, err = c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   c.sessionPath(fmt.Sprintf("element/%s/click", elements[0].id())),
		Body:   map[string]interface{}{},
		JSON:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to click element: %w", err)
	}
	return nil
}
