// Package fuzztests houses Go fuzz harnesses for the shader preprocessor.
// Its goal is to guard against panics, runaway recursion and leftover
// `#version` directives on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через preprocess.Preprocessor
// с небольшим in-memory include root.
//
// Не делает: запуск транслятора, запись файлов, выполнение CLI.
package fuzztests
