//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/editor"
)

var ed *editor.Editor

func main() {
	ed = editor.NewEditor(840, 480)

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	api.Set("loadScene", js.FuncOf(loadScene))
	api.Set("updateScene", js.FuncOf(updateScene))
	api.Set("loadSampleScene", js.FuncOf(loadSampleScene))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("keyDown", js.FuncOf(keyDown))
	api.Set("zoom", js.FuncOf(zoom))
	api.Set("addObject", js.FuncOf(addObject))
	api.Set("duplicateSelection", js.FuncOf(duplicateSelection))
	api.Set("deleteSelection", js.FuncOf(deleteSelection))
	api.Set("bringToFront", js.FuncOf(bringToFront))
	api.Set("sendToBack", js.FuncOf(sendToBack))
	api.Set("bringForward", js.FuncOf(bringForward))
	api.Set("sendBackward", js.FuncOf(sendBackward))
	api.Set("setSelection", js.FuncOf(setSelection))
	api.Set("setSnapEnabled", js.FuncOf(setSnapEnabled))
	api.Set("applyPatch", js.FuncOf(applyPatch))
	api.Set("dropClip", js.FuncOf(dropClip))
	api.Set("setTime", js.FuncOf(setTime))
	api.Set("play", js.FuncOf(play))
	api.Set("pause", js.FuncOf(pause))
	api.Set("togglePlay", js.FuncOf(togglePlay))
	api.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	api.Set("getScene", js.FuncOf(getScene))
	api.Set("getState", js.FuncOf(getState))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("getHandles", js.FuncOf(getHandles))
	api.Set("getLinkTargets", js.FuncOf(getLinkTargets))
	api.Set("getLinkingStatus", js.FuncOf(getLinkingStatus))
	api.Set("getTimelineRows", js.FuncOf(getTimelineRows))
	api.Set("getVisibleIds", js.FuncOf(getVisibleIDs))
	api.Set("drainPatches", js.FuncOf(drainPatches))

	js.Global().Set("editorEngine", api)
	js.Global().Set("editorWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadScene(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing scene JSON"})
	}
	if err := ed.LoadScene(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func updateScene(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing scene JSON"})
	}
	if err := ed.UpdateScene(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleScene(this js.Value, args []js.Value) interface{} {
	ed.LoadSampleScene()
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	ed.PointerDown(args[0].Float(), args[1].Float(), args[2].Int(),
		boolArg(args, 3), boolArg(args, 4), boolArg(args, 5), boolArg(args, 6))
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerMove(args[0].Float(), args[1].Float(),
		boolArg(args, 2), boolArg(args, 3), boolArg(args, 4), boolArg(args, 5))
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerUp(args[0].Float(), args[1].Float())
	return nil
}

func keyDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.KeyDown(args[0].String(), boolArg(args, 1), boolArg(args, 2), boolArg(args, 3))
	return nil
}

func zoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	ed.Zoom(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

func addObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("")
	}
	return js.ValueOf(ed.AddObject(args[0].String()))
}

func duplicateSelection(this js.Value, args []js.Value) interface{} {
	ed.DuplicateSelection()
	return nil
}

func deleteSelection(this js.Value, args []js.Value) interface{} {
	ed.DeleteSelection()
	return nil
}

func bringToFront(this js.Value, args []js.Value) interface{} {
	ed.BringToFront()
	return nil
}

func sendToBack(this js.Value, args []js.Value) interface{} {
	ed.SendToBack()
	return nil
}

func bringForward(this js.Value, args []js.Value) interface{} {
	ed.BringForward()
	return nil
}

func sendBackward(this js.Value, args []js.Value) interface{} {
	ed.SendBackward()
	return nil
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		ed.SetSelection(nil)
		return nil
	}
	arr := args[0]
	ids := make([]string, arr.Length())
	for i := 0; i < arr.Length(); i++ {
		ids[i] = arr.Index(i).String()
	}
	ed.SetSelection(ids)
	return nil
}

func setSnapEnabled(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetSnapEnabled(args[0].Bool())
	return nil
}

func applyPatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if err := ed.ApplyPatch(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func dropClip(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	ed.DropClip(args[0].String(), args[1].Float(), args[2].Int())
	return nil
}

func setTime(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetTime(args[0].Float())
	return nil
}

func play(this js.Value, args []js.Value) interface{} {
	ed.Play()
	return nil
}

func pause(this js.Value, args []js.Value) interface{} {
	ed.Pause()
	return nil
}

func togglePlay(this js.Value, args []js.Value) interface{} {
	ed.TogglePlay()
	return nil
}

func tick(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.Tick(args[0].Float())
	return nil
}

// --- Query Handlers ---

func getScene(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetScene())
}

func getState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetState())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetSelection())
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetSelectionBounds())
}

func getHandles(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetHandles())
}

func getLinkTargets(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetLinkTargets())
}

func getLinkingStatus(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("null")
	}
	return js.ValueOf(ed.GetLinkingStatus(args[0].String()))
}

func getTimelineRows(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetTimelineRows())
}

func getVisibleIDs(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetVisibleIDs())
}

func drainPatches(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.DrainPatches())
}

func boolArg(args []js.Value, i int) bool {
	return len(args) > i && args[i].Truthy()
}
