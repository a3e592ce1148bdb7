// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps special keys to actions.
type Keymap map[tcell.Key]Action
type RuneKeymap map[rune]Action
type ModKeymap map[tcell.ModMask]Keymap

// InputProcessor translates tcell key events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with the default bindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyRight] = ActionNextPage
	p.keymap[tcell.KeyPgDn] = ActionNextPage
	p.keymap[tcell.KeyLeft] = ActionPrevPage
	p.keymap[tcell.KeyPgUp] = ActionPrevPage
	p.keymap[tcell.KeyEscape] = ActionQuit

	// --- Modifier Keys ---
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	ctrlMap[tcell.KeyCtrlY] = ActionRedo
	ctrlMap[tcell.KeyCtrlC] = ActionQuit
	ctrlMap[tcell.KeyCtrlS] = ActionSaveSlide
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Rune Mappings ---
	p.runeKeymap['q'] = ActionQuit
	p.runeKeymap['n'] = ActionNextPage
	p.runeKeymap['p'] = ActionPrevPage
	p.runeKeymap['c'] = ActionClear
	p.runeKeymap['s'] = ActionSaveSlide
	p.runeKeymap['S'] = ActionExportAll
	p.runeKeymap['y'] = ActionCopySlide
	p.runeKeymap['b'] = ActionToolPen
	p.runeKeymap['h'] = ActionToolHighlight
	p.runeKeymap['e'] = ActionToolEraser
	p.runeKeymap['+'] = ActionBrushGrow
	p.runeKeymap['='] = ActionBrushGrow
	p.runeKeymap['-'] = ActionBrushShrink
	p.runeKeymap['t'] = ActionCycleTheme
}

// Bind maps a rune to an action, replacing any existing binding.
func (p *InputProcessor) Bind(r rune, action Action) {
	p.runeKeymap[r] = action
}

// ProcessEvent returns the action bound to ev, or ActionUnknown.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	// 1. Modifier + key
	if modKeyMap, ok := p.modKeymap[mod]; ok {
		if action, ok := modKeyMap[key]; ok {
			return ActionEvent{Action: action}
		}
	}
	// Ctrl+letter keys already imply Ctrl; some terminals report it without the modifier.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if action, ok := p.modKeymap[tcell.ModCtrl][key]; ok {
			return ActionEvent{Action: action}
		}
		mod &^= tcell.ModCtrl
	}

	// 2. Special keys
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 3. Runes, with or without Shift
	if key == tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		r := ev.Rune()
		if r >= '1' && r <= '9' {
			return ActionEvent{Action: ActionSelectInk, Index: int(r - '1')}
		}
		if action, ok := p.runeKeymap[r]; ok {
			return ActionEvent{Action: action}
		}
	}

	return ActionEvent{Action: ActionUnknown}
}
