package lyrics

import (
	"fmt"
	"log"

	"github.com/liuzl/gocc"
)

// openCCConverter converts traditional Chinese lyrics to simplified.
type openCCConverter struct {
	cc *gocc.OpenCC
}

// NewT2SConverter initializes an OpenCC t2s converter.
func NewT2SConverter(logger *log.Logger) (Converter, error) {
	cc, err := gocc.New("t2s")
	if err != nil {
		return nil, fmt.Errorf("initializing OpenCC t2s: %w", err)
	}
	logger.Println("OpenCC converter (t2s) initialized")
	return &openCCConverter{cc: cc}, nil
}

func (c *openCCConverter) Convert(text string) (string, error) {
	return c.cc.Convert(text)
}
