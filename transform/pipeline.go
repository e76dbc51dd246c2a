package transform

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/brightloom/promptbridge/jsonpath"
	"github.com/brightloom/promptbridge/lossiness"
)

// Pipeline is an ordered set of Rules applied against a source document,
// writing into a target document while recording every non-identity effect
// into a lossiness.Tracker.
type Pipeline struct {
	rules          []Rule
	customUnits    map[string]CustomUnitFunc
	customHandlers map[string]CustomFunc
}

// New builds a Pipeline from rules, sorted by descending priority with
// stable insertion order on ties.
func New(rules []Rule) *Pipeline {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	return &Pipeline{
		rules:          ordered,
		customUnits:    make(map[string]CustomUnitFunc),
		customHandlers: make(map[string]CustomFunc),
	}
}

// RegisterCustomUnit registers a named formula usable by UnitConversion
// rules with UnitFormula.Kind == "Custom".
func (p *Pipeline) RegisterCustomUnit(name string, fn CustomUnitFunc) {
	p.customUnits[name] = fn
}

// RegisterCustom registers a named handler usable by Custom rules.
func (p *Pipeline) RegisterCustom(name string, fn CustomFunc) {
	p.customHandlers[name] = fn
}

// RuleIDs returns the rule identifiers in application order, used by the
// CLI's verbose/preview output to trace which rules a translation visited.
func (p *Pipeline) RuleIDs() []string {
	return lo.Map(p.rules, func(r Rule, _ int) string { return r.ID })
}

// Run applies every rule in order against source, building and returning
// the target document. strictMode governs the lossiness severity recorded
// by the tracker and the failure behavior of non-optional rules.
func (p *Pipeline) Run(tracker *lossiness.Tracker, source map[string]any, strictMode lossiness.StrictMode) (map[string]any, error) {
	target := map[string]any{}

	for _, rule := range p.rules {
		if err := p.applyRule(tracker, source, target, rule, strictMode); err != nil {
			return nil, err
		}
	}

	return target, nil
}

func (p *Pipeline) applyRule(tracker *lossiness.Tracker, source, target map[string]any, rule Rule, strictMode lossiness.StrictMode) error {
	err := p.applyOnce(tracker, source, target, rule, strictMode)
	if err == nil {
		return nil
	}

	if rule.Optional {
		tracker.Record(lossiness.KindDrop, rule.SourcePath,
			fmt.Sprintf("rule %q dropped: %v", rule.ID, err), nil, nil)

		return nil
	}

	if strictMode == lossiness.StrictModeCoerce {
		tracker.Record(lossiness.KindMapFallback, rule.SourcePath,
			fmt.Sprintf("rule %q failed and was coerced: %v", rule.ID, err), nil, nil)

		return nil
	}

	return fmt.Errorf("transform: rule %q: %w", rule.ID, err)
}

func (p *Pipeline) applyOnce(tracker *lossiness.Tracker, source, target map[string]any, rule Rule, strictMode lossiness.StrictMode) error {
	t := rule.Transformation

	if t.Kind == KindConditional {
		return p.applyConditional(tracker, source, target, rule, strictMode)
	}

	if t.Kind == KindDefaultValue {
		return p.applyDefaultValue(target, rule)
	}

	expr, err := jsonpath.Compile(rule.SourcePath)
	if err != nil {
		return fmt.Errorf("compiling source path %q: %w", rule.SourcePath, err)
	}

	matches := jsonpath.Execute(expr, source)
	if len(matches) == 0 {
		return nil
	}

	sourceValue := matches[0]

	switch t.Kind {
	case KindTypeConversion:
		return p.applyTypeConversion(tracker, target, rule, sourceValue, strictMode)
	case KindEnumMapping:
		return p.applyEnumMapping(tracker, target, rule, sourceValue, strictMode)
	case KindUnitConversion:
		return p.applyUnitConversion(tracker, target, rule, sourceValue, strictMode)
	case KindFieldRename:
		return writeAt(target, rule.Target(), sourceValue)
	case KindCustom:
		return p.applyCustom(tracker, target, rule, sourceValue)
	default:
		return fmt.Errorf("unknown transformation kind %q", t.Kind)
	}
}

func (p *Pipeline) applyTypeConversion(tracker *lossiness.Tracker, target map[string]any, rule Rule, sourceValue any, strictMode lossiness.StrictMode) error {
	t := rule.Transformation

	if sameScalarType(sourceValue, t.TypeConversionTo) {
		return writeAt(target, rule.Target(), sourceValue)
	}

	converted, err := convertScalar(sourceValue, t.TypeConversionTo)
	if err != nil {
		if strictMode == lossiness.StrictModeStrict {
			return err
		}

		tracker.Record(lossiness.KindDrop, rule.Target(),
			fmt.Sprintf("coercion failed: %v", err), sourceValue, nil)

		return nil
	}

	tracker.Record(lossiness.KindEmulate, rule.Target(),
		fmt.Sprintf("converted %s to %s", t.TypeConversionFrom, t.TypeConversionTo), sourceValue, converted)

	return writeAt(target, rule.Target(), converted)
}

func (p *Pipeline) applyEnumMapping(tracker *lossiness.Tracker, target map[string]any, rule Rule, sourceValue any, strictMode lossiness.StrictMode) error {
	t := rule.Transformation

	key := fmt.Sprintf("%v", sourceValue)

	mapped, ok := t.EnumMappings[key]
	if ok {
		if mapped != key {
			tracker.Record(lossiness.KindRelocate, rule.Target(),
				fmt.Sprintf("enum %q mapped to %q", key, mapped), sourceValue, mapped)
		}

		return writeAt(target, rule.Target(), mapped)
	}

	if t.EnumDefault != nil {
		tracker.Record(lossiness.KindMapFallback, rule.Target(),
			fmt.Sprintf("unknown enum value %q fell back to default %q", key, *t.EnumDefault), sourceValue, *t.EnumDefault)

		return writeAt(target, rule.Target(), *t.EnumDefault)
	}

	if strictMode == lossiness.StrictModeStrict {
		return fmt.Errorf("enum value %q has no mapping and no default", key)
	}

	tracker.Record(lossiness.KindDrop, rule.Target(),
		fmt.Sprintf("unknown enum value %q dropped", key), sourceValue, nil)

	return nil
}

func (p *Pipeline) applyUnitConversion(tracker *lossiness.Tracker, target map[string]any, rule Rule, sourceValue any, strictMode lossiness.StrictMode) error {
	t := rule.Transformation

	converted, err := convertUnit(sourceValue, t.UnitFormula, p.customUnits)
	if err != nil {
		if strictMode == lossiness.StrictModeStrict {
			return err
		}

		tracker.Record(lossiness.KindDrop, rule.Target(),
			fmt.Sprintf("unit conversion failed: %v", err), sourceValue, nil)

		return nil
	}

	tracker.Record(lossiness.KindEmulate, rule.Target(),
		fmt.Sprintf("converted %s to %s", t.UnitFrom, t.UnitTo), sourceValue, converted)

	return writeAt(target, rule.Target(), converted)
}

func (p *Pipeline) applyDefaultValue(target map[string]any, rule Rule) error {
	expr, err := jsonpath.Compile(rule.Target())
	if err == nil && jsonpath.Exists(expr, target) {
		return nil
	}

	// DefaultValue never emits lossiness.
	return writeAt(target, rule.Target(), rule.Transformation.DefaultValue)
}

func (p *Pipeline) applyConditional(tracker *lossiness.Tracker, source, target map[string]any, rule Rule, strictMode lossiness.StrictMode) error {
	t := rule.Transformation

	ok, err := t.ConditionalCond.Eval(target)
	if err != nil {
		return err
	}

	var branch *Rule
	if ok {
		branch = t.ConditionalIfTrue
	} else {
		branch = t.ConditionalIfFalse
	}

	if branch == nil {
		return nil
	}

	return p.applyRule(tracker, source, target, *branch, strictMode)
}

func (p *Pipeline) applyCustom(tracker *lossiness.Tracker, target map[string]any, rule Rule, sourceValue any) error {
	t := rule.Transformation

	fn := t.CustomFunc
	if fn == nil {
		var ok bool

		fn, ok = p.customHandlers[t.CustomName]
		if !ok {
			return fmt.Errorf("unregistered custom transform %q", t.CustomName)
		}
	}

	value, produced, err := fn(tracker, target, sourceValue)
	if err != nil {
		return err
	}

	if !produced {
		return nil
	}

	return writeAt(target, rule.Target(), value)
}
