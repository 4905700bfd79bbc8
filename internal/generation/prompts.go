package generation

import (
	"fmt"
	"strings"
)

// maxPreviousOutputChars caps how much of the previous raw output is embedded
// in a repair prompt.
const maxPreviousOutputChars = 2000

const formatInstructions = `Respond in EXACTLY this format, with no extra commentary:

PROJECT_TYPE: <react|flask|fastapi|express|node|python|javascript>

FILES:
--- <relative/path/to/file> ---
<complete file content>

--- <relative/path/to/next/file> ---
<complete file content>

STRUCTURE:
<one relative path per line>

SETUP:
<install command, or "none">

RUN:
<start command>

PORT: <port number, or "none">

Rules:
- Every file must be complete and runnable as written.
- Use relative paths with forward slashes.
- Do not wrap file contents in markdown code fences.`

const workedExamples = `Example for "Create a React counter app":

PROJECT_TYPE: react

FILES:
--- package.json ---
{
  "name": "counter",
  "dependencies": {
    "react": "^18.2.0",
    "react-dom": "^18.2.0",
    "react-scripts": "5.0.1"
  },
  "scripts": { "start": "react-scripts start" }
}

--- public/index.html ---
<!DOCTYPE html>
<html><body><div id="root"></div></body></html>

--- src/index.js ---
import React from "react";
import ReactDOM from "react-dom/client";
import App from "./App";

ReactDOM.createRoot(document.getElementById("root")).render(<App />);

--- src/App.js ---
import React, { useState } from "react";

export default function App() {
  const [count, setCount] = useState(0);
  return <button onClick={() => setCount(count + 1)}>Count: {count}</button>;
}

STRUCTURE:
package.json
public/index.html
src/index.js
src/App.js

SETUP:
npm install

RUN:
npm start

PORT: 5555

Example for "Create a Flask hello API":

PROJECT_TYPE: flask

FILES:
--- requirements.txt ---
flask==3.0.0

--- app.py ---
from flask import Flask, jsonify

app = Flask(__name__)

@app.route("/")
def hello():
    return jsonify(message="hello")

if __name__ == "__main__":
    app.run(host="0.0.0.0", port=5000)

STRUCTURE:
requirements.txt
app.py

SETUP:
pip install -r requirements.txt

RUN:
python app.py

PORT: 5000`

// buildGenerationPrompt is the from-scratch prompt for the first iteration.
func buildGenerationPrompt(description string) string {
	return fmt.Sprintf(`You are an expert software engineer. Build a complete, working project for this request:

%s

%s

%s`, description, formatInstructions, workedExamples)
}

// buildRepairPrompt embeds the previous failure so the model can fix its own
// output instead of starting over.
func buildRepairPrompt(description, previousError, previousOutput string) string {
	prev := "Not available"
	if previousOutput != "" {
		if len(previousOutput) > maxPreviousOutputChars {
			previousOutput = previousOutput[:maxPreviousOutputChars]
		}
		prev = previousOutput
	}
	if strings.TrimSpace(previousError) == "" {
		previousError = "Unknown error"
	}

	return fmt.Sprintf(`You are an expert software engineer. Your previous attempt at this request failed:

%s

The execution error was:
%s

Your previous output (possibly truncated):
%s

Produce a corrected, complete version of the whole project. Fix the error above; do not repeat it.

%s`, description, previousError, prev, formatInstructions)
}
