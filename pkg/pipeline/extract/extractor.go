package extract

import (
	"context"
	"fmt"

	"ai-studyprep-be/internal/pkg/logger"
	"ai-studyprep-be/pkg/pipeline/recovery"
)

// Result carries the extracted text along with the route that produced it,
// so callers can record which processing mode a session actually used.
type Result struct {
	Text         string
	Decision     Decision
	UsedFallback bool
}

// Extractor owns the strategy set. All extraction flows through Extract's
// dispatch switch; strategies are never invoked from anywhere else.
type Extractor struct {
	selector *Selector
	direct   *DirectStrategy
	ocr      Strategy
	vision   Strategy
	log      logger.ILogger
}

func NewExtractor(cache *FileCache, ocr Strategy, vision Strategy, prefer Preference, log logger.ILogger) *Extractor {
	direct := NewDirectStrategy(cache)
	return &Extractor{
		selector: NewSelector(direct, ocr != nil, vision != nil, prefer),
		direct:   direct,
		ocr:      ocr,
		vision:   vision,
		log:      log,
	}
}

func (e *Extractor) Extract(ctx context.Context, req Request) (Result, error) {
	sel := e.selector.Select(ctx, req)

	e.log.Debug("Extractor", "Route selected", map[string]interface{}{
		"session_id": req.SessionId,
		"pages":      []int{req.StartPage, req.EndPage},
		"decision":   sel.Decision.String(),
	})

	switch sel.Decision {
	case DecisionDirect:
		return Result{Text: sel.ProbeText, Decision: DecisionDirect}, nil

	case DecisionOCR:
		text, err := e.ocr.Extract(ctx, req)
		if err == nil {
			return Result{Text: text, Decision: DecisionOCR}, nil
		}
		return e.fallbackFromOCR(ctx, req, err)

	case DecisionAIVision:
		text, err := e.vision.Extract(ctx, req)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: text, Decision: DecisionAIVision}, nil

	default:
		return Result{}, recovery.Tag(recovery.KindOCR, "extract",
			fmt.Errorf("no extraction strategy available for %s pages %d-%d", req.PDFPath, req.StartPage, req.EndPage))
	}
}

// fallbackFromOCR consults the classifier before routing an OCR failure to
// the vision strategy. Anything the classifier does not map to fallback_ai
// (a cancelled context, for one) propagates unchanged.
func (e *Extractor) fallbackFromOCR(ctx context.Context, req Request, ocrErr error) (Result, error) {
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	decision := recovery.Classify(ocrErr, "ocr_extraction")
	if decision.Action != recovery.ActionFallbackAI || e.vision == nil {
		return Result{}, ocrErr
	}

	e.log.Warn("Extractor", "OCR failed, falling back to AI vision", map[string]interface{}{
		"session_id": req.SessionId,
		"pages":      []int{req.StartPage, req.EndPage},
		"error":      ocrErr.Error(),
	})

	text, err := e.vision.Extract(ctx, req)
	if err != nil {
		// Report the original failure; the vision error is secondary.
		return Result{}, recovery.Tag(recovery.KindOCR, "extract_fallback", ocrErr)
	}
	return Result{Text: text, Decision: DecisionAIVision, UsedFallback: true}, nil
}
